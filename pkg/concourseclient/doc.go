// Package concourseclient provides the primary entry point for constructing a
// Concourse API client that implements the concourse.Client interface.
//
// It layers configuration, HTTP transport and authentication on top of the
// resource interfaces and types defined in the concourse package.
//
// Quick start
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
//
//	  cli, err := concourseclient.New(ctx, &concourse.Config{
//	    URL:      "https://ci.example.com",
//	    Username: "admin",
//	    Password: "secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  pipelines, err := cli.Team("main").ListPipelines(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = pipelines
//	}
//
// # Sessions
//
// With a username and password the client logs in on the first request. It
// asks /api/v1/info for the server version and then uses the token endpoint
// that version understands. The session is reused until ten minutes before it
// expires, and concurrent requests share a single login.
//
// # TLS and development mode
//
// Config.SkipTLSVerify is only accepted when CONCOURSE_DEV_MODE is "true" or
// "1".
package concourseclient
