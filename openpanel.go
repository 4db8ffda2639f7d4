// Package openpanel provides a Go SDK for the OpenPanel analytics API.
//
// The SDK tracks events, identifies users, adjusts numeric profile
// properties and records revenue through a Tracker, and reads exported data
// through an Exporter. Every call is a single synchronous HTTP request.
//
// Basic usage:
//
//	cfg, err := openpanel.LoadConfigFromEnv("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tracker, err := openpanel.NewTracker(cfg,
//	    openpanel.WithGlobalProperties(map[string]any{"app": "billing"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := tracker.Track(ctx, "signup", map[string]any{"plan": "pro"})
//
// A nil response with a nil error means nothing was sent: the tracker is
// disabled or a filter dropped the event.
//
// A Tracker is not safe for concurrent use while SetHeader is being called.
package openpanel

// Version is the SDK version.
const Version = "0.1.0"
