// Package hdl is the circuit data model: Modules and the attributes they
// hold, Signals and the Slices and Concats over them, and ExternalModules
// wrapping blocks defined outside this package.
//
// A Module is a strongly typed container. Every attribute added to it is
// sorted into exactly one sub-collection by its variant (Ports, Signals,
// Instances, InstArrays, InstBundles, Bundles) and also recorded in the
// Module's Namespace under the same name.
//
//	m := hdl.NewModule("Inverter")
//	m.Set("inp", hdl.Input(hdl.Width(1)))
//	m.Add(hdl.Output(hdl.Named("out")))
//
// Modules carry no behavior and no parameters. Parametric blocks from other
// sources are modeled as ExternalModules, whose parameter values are checked
// against a declared parameter type when called.
//
// Signals are indexed Python-style: negative indices count from the top,
// ranges include their start and exclude their stop, and negative steps
// reverse the range. Slice bounds are resolved lazily and cached.
//
// This package does no logging and keeps no global state. It is not safe for
// concurrent mutation.
package hdl
