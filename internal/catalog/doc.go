// Package catalog is the client for the formulae.brew.sh JSON API: full
// package listings, per-package details, and trailing-year install
// analytics, decoded into tagged record types at one boundary.
package catalog
