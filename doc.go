// Package iconpack converts raster and vector images into multi-resolution
// icon containers.
//
// The per-file Pipeline detects the input format, renders it at each
// requested size and encodes the results as either a binary ICO container
// or a scalable sprite document. Scheduler fans the pipeline out across
// many files with bounded concurrency, per-item timeouts and isolated
// failures. Packager maps named platform profiles to complete icon sets
// delivered as zip archives.
//
// Rasterization is a capability injected behind the Rasterizer interface;
// raster.Engine is the stock implementation. Every conversion is a one-shot
// in-memory transformation producing downloadable byte blobs.
package iconpack
