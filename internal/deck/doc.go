// Package deck is the data access facade: the single entry point through
// which both interactive callers and the prefetch scheduler read and mutate
// package data. Reads are cache-first and fall back from the remote catalog
// to the local brew tool; mutations go through brew alone and invalidate
// every cached view they may have falsified.
package deck
