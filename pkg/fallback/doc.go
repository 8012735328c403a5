// Package fallback answers requests that match no API route.
//
// Two strategies exist. ServeStatic serves a single-page app build and
// falls back to its index.html, or reports a missing build as JSON.
// DescribeEndpoints lists the API instead of touching the disk, which is what
// production deployments use. New makes the choice once, from configuration.
package fallback
