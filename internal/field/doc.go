// Package field builds and evaluates the 2D sampling grid over which
// the flux surface is computed: evenly spaced distance and position
// axes sharing one sampled domain, meshed into three parallel N×N
// arrays (distance, position, flux).
package field
