package application

import "expvar"

// Counters published on /debug/vars.
var (
	blogReads     = expvar.NewInt("blog_reads")
	registrations = expvar.NewInt("registrations")
	uploads       = expvar.NewInt("image_uploads")
)
