// Package arbitrage joins peso and dollar quote sets on ticker identity
// and derives the implied exchange rate per instrument, its gap against
// a reference rate, and a coarse opportunity signal. The Pipeline type
// is the single synchronous entrypoint: two workbooks in, one ordered
// report out, no state kept between runs.
package arbitrage
