// Package build provides the build pipeline: load the page manifest, render
// and write every page, then incrementally sync the stylesheets, favicon and
// static files the site needs into the output directory.
//
// Manifest and page failures abort the run. Asset failures do not: every
// asset is synced independently and failures are logged and reported in the
// Report, so one broken stylesheet never blocks the rest of the site.
package build
