// Package component holds the tree that generated code is assembled from.
//
// A Node stands for one register block, register or bit field. It owns an
// ordered list of children and an ordered list of features; features
// contribute declarations, package imports and code fragments. Every query
// walks the tree depth-first, own features before children, so two walks
// over the same tree always yield the same order.
package component
