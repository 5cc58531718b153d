package halo

// Version is the release of halo, reported by --version.
const Version = "0.3.0"
