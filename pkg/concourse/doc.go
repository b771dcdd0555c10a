// Package concourse provides types, interfaces, and helpers for working with
// the Concourse CI REST API.
//
// # Overview
//
// The concourse package defines the wire types (Pipeline, Job, Build,
// Resource, ResourceVersion, ...) and the interfaces for the hierarchical
// resource clients: Client → TeamClient → PipelineClient → JobClient /
// ResourceClient → BuildClient / VersionClient. A concrete implementation is
// provided by the concourseclient package, which wires configuration,
// transport, and session authentication.
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/concourse-client/pkg/concourse"
//	  "github.com/fivetwenty-io/concourse-client/pkg/concourseclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := concourseclient.New(ctx, &concourse.Config{
//	    URL:      "https://ci.example.com",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  builds, err := cli.Team("main").Pipeline("release").Job("test").
//	    ListBuilds(ctx, &concourse.Page{Limit: 10})
//	  if err != nil { log.Fatal(err) }
//	  _ = builds
//	}
//
// # Errors
//
// Non-2xx responses are returned as *APIError. Use IsNotFound, IsUnauthorized
// and IsForbidden, or errors.As, to inspect them.
//
// # Interceptors
//
// An InterceptorChain set on Config.Interceptors runs after the session
// headers have been attached. The package ships logging, header, metrics and
// rate limiting interceptors.
package concourse
