// Copyright 2026 The codi Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package codi provides reverse-mode automatic differentiation via a
// chunked operation tape.
//
// This package wraps the tape's internal chunked arena and active
// scalar collaborator behind a small public surface: construct a Tape,
// register inputs, combine them with Add/Sub/Mul/Div, seed an output
// adjoint, and Evaluate to propagate derivatives back to the inputs.
//
// Example:
//
//	import "github.com/codi-go/codi/codi"
//
//	func main() {
//	    tape := codi.NewLinearTape[float64]()
//	    tape.SetActive()
//
//	    x := tape.NewInput(4.0)
//	    y := x.Mul(x)         // y = x*x, recorded on the tape
//
//	    tape.SetActive()
//	    y.Seed(1.0)
//	    tape.Evaluate()
//	    _ = x.Grad()          // 2*x == 8.0
//	}
package codi

import "github.com/codi-go/codi/internal/tape"

// Real is the set of floating point types a Tape can differentiate.
type Real = tape.Real

// Config tunes a tape's chunk size and jacobian-filtering behavior.
type Config = tape.Config

// DefaultConfig returns the tuning defaults: no filtering, the
// default chunk size applied to every stream.
func DefaultConfig() Config { return tape.DefaultConfig() }
