/*
flag package sets up cli flags shared across services.

Usage:

	Flags listed in this package are shared across boundaries and
	service-agnostic. For service dependent flags please define them in
	their respective package.
*/
package flag

import (
	"flag"
)

const (
	APIServer   = "api_server"
	FeedScraper = "feed_scraper"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'feed_scraper'")
	flag.BoolVar(&ByPassAuth, "bypass_auth", false, "skip identity provider validation, local development only")
}

// Parse finalizes the shared flags. Called once from main, never from
// package inits, so test binaries can register their own flags first.
func Parse() {
	flag.Parse()
}
