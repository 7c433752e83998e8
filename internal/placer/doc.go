// Package placer links, copies, or symlinks books into their destination
// folders, skipping destinations that already exist.
package placer
