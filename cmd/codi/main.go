// Package main provides a small runnable demo of the codi tape.
package main

import (
	"fmt"
	"os"

	"github.com/codi-go/codi/codi"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("codi %s\n", version)
		return
	}

	fmt.Println("codi - a chunked reverse-mode AD tape")
	fmt.Printf("Version: %s\n\n", version)
	runDemo()
}

// runDemo replays the three-variable chain rule example: w = (x+y)*z,
// differentiated with respect to x, y and z at x=3, y=4, z=5.
func runDemo() {
	tape := codi.NewLinearTape[float64]()
	tape.SetActive()

	x := tape.NewInput(3.0)
	y := tape.NewInput(4.0)
	z := tape.NewInput(5.0)

	sum := x.Add(y)
	w := sum.Mul(z)

	w.Seed(1.0)
	tape.Evaluate()

	fmt.Printf("w = (x+y)*z = %v\n", w.Value())
	fmt.Printf("dw/dx = %v\n", x.Grad())
	fmt.Printf("dw/dy = %v\n", y.Grad())
	fmt.Printf("dw/dz = %v\n", z.Grad())
}
