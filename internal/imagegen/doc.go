// Package imagegen implements the image-generation collaborator boundary
// for the Illustrate stage.
//
// Generation is modeled as an ordered capability chain: each Generator
// exposes Available() for probing and Generate() for invocation, and the
// chain picks the first available implementation. The standard order is an
// in-process binding (when the host wires one), the external-process
// command, and finally the degraded placeholder generator, which writes a
// minimal static WebP so that the publish stage can proceed when no real
// generator exists. The placeholder can be excluded, in which case an
// empty chain makes the illustrate stage fatal.
package imagegen
