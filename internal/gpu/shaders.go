//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/jfa_common.wgsl
var jfaCommonSource string

//go:embed shaders/jfa_resolve.wgsl
var jfaResolveSource string

//go:embed shaders/jfa_resolve_msaa.wgsl
var jfaResolveMSAASource string

//go:embed shaders/jfa_step.wgsl
var jfaStepSource string

//go:embed shaders/jfa_composite.wgsl
var jfaCompositeSource string

// program identifies one compute pipeline of the accelerator.
type program int

const (
	programResolve program = iota
	programResolveMSAA
	programStep
	programComposite

	programCount
)

var programLabels = [programCount]string{
	programResolve:     "outline_resolve",
	programResolveMSAA: "outline_resolve_msaa",
	programStep:        "outline_jfa_step",
	programComposite:   "outline_composite",
}

// String returns the pipeline label.
func (p program) String() string {
	if p < 0 || p >= programCount {
		return fmt.Sprintf("program(%d)", int(p))
	}
	return programLabels[p]
}

// source returns the complete WGSL source of the program.
func (p program) source() string {
	var body string
	switch p {
	case programResolve:
		body = jfaResolveSource
	case programResolveMSAA:
		body = jfaResolveMSAASource
	case programStep:
		body = jfaStepSource
	case programComposite:
		body = jfaCompositeSource
	}
	return jfaCommonSource + "\n" + body
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
