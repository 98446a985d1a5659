// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package pipeline

// OpType enumerates the operators a Pipeline can record.
type OpType int

//go:generate go tool enumer -type=OpType -trimprefix=OpType -transform=snake -output=gen_optype_enumer.go optypes.go

const (
	OpTypeInvalid OpType = iota
	OpTypeCameraAccess
	OpTypeGetAffine
	OpTypeApplyAffine
	OpTypeAssignment
	OpTypeCvtColor
	OpTypeTypeConvert
	OpTypeArithmetic
	OpTypeRunAlgorithm

	// OpTypeLast should always be kept the last, it is used as a counter/marker for OpType.
	OpTypeLast
)

// IsBuiltin returns whether the operator has a dedicated Pipeline method. Other operators, like
// OpTypeRunAlgorithm, are reached through optional interfaces.
func (op OpType) IsBuiltin() bool {
	return op >= OpTypeCameraAccess && op <= OpTypeArithmetic
}
