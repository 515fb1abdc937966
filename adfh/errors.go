package adfh

import (
	"fmt"

	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Code is a numeric ADF error code. The values are shared with existing
// ADF tooling and must not change.
type Code int

const (
	NoError                    Code = -1
	NumberLessThanMinimum      Code = 1
	NumberGreaterThanMaximum   Code = 2
	StringLengthZero           Code = 3
	StringLengthTooBig         Code = 4
	StringNotAHexString        Code = 5
	TooManyFilesOpened         Code = 6
	FileStatusNotRecognized    Code = 7
	FileOpenError              Code = 8
	FileNotOpened              Code = 9
	FileIndexOutOfRange        Code = 10
	BlockOffsetOutOfRange      Code = 11
	NullStringPointer          Code = 12
	FseekError                 Code = 13
	FwriteError                Code = 14
	FreadError                 Code = 15
	MemoryTagError             Code = 16
	DiskTagError               Code = 17
	RequestedNewFileExists     Code = 18
	FileFormatNotRecognized    Code = 19
	FreeOfRootNode             Code = 20
	FreeOfFreeChunkTable       Code = 21
	RequestedOldFileNotFound   Code = 22
	UnimplementedCode          Code = 23
	SubNodeTableEntriesBad     Code = 24
	MemoryAllocationFailed     Code = 25
	DuplicateChildName         Code = 26
	ZeroDimensions             Code = 27
	BadNumberOfDimensions      Code = 28
	ChildNotOfGivenParent      Code = 29
	DataTypeTooLong            Code = 30
	InvalidDataType            Code = 31
	NullPointer                Code = 32
	NoData                     Code = 33
	ErrorZeroingOutMemory      Code = 34
	RequestedDataTooLong       Code = 35
	EndOutOfDefinedRange       Code = 36
	BadStrideValue             Code = 37
	MinimumGTMaximum           Code = 38
	MachineFormatNotRecognized Code = 39
	CannotConvertNativeFormat  Code = 40
	ConversionFormatsEqual     Code = 41
	DataTypeNotSupported       Code = 42
	FileCloseError             Code = 43
	NumericOverflow            Code = 44
	StartOutOfDefinedRange     Code = 45
	ZeroLengthValue            Code = 46
	BadDimensionValue          Code = 47
	BadErrorState              Code = 48
	UnequalMemoryAndDiskDims   Code = 49
	LinksTooDeep               Code = 50
	NodeIsNotALink             Code = 51
	LinkTargetNotThere         Code = 52
	LinkedToFileNotThere       Code = 53
	NodeIDZero                 Code = 54
	IncompleteData             Code = 55
	InvalidNodeName            Code = 56
	InvalidVersion             Code = 57
	NodesNotInSameFile         Code = 58
	PriStkNotFound             Code = 59
	MachineFileIncompatible    Code = 60
	FflushError                Code = 61
	NullNodeIDPointer          Code = 62
	MaxFileSizeExceeded        Code = 63

	ErrGLink          Code = 70
	ErrNoAtt          Code = 71
	ErrAOpen          Code = 72
	ErrIGetName       Code = 73
	ErrGMove          Code = 74
	ErrGUnlink        Code = 75
	ErrGOpen          Code = 76
	ErrDGetSpace      Code = 77
	ErrDOpen          Code = 78
	ErrDExtend        Code = 79
	ErrDCreate        Code = 80
	ErrSCreateSimple  Code = 81
	ErrACreate        Code = 82
	ErrGCreate        Code = 83
	ErrDWrite         Code = 84
	ErrDRead          Code = 85
	ErrAWrite         Code = 86
	ErrARead          Code = 87
	ErrFMount         Code = 88
	ErrLinkMove       Code = 89
	ErrLinkData       Code = 90
	ErrLinkNode       Code = 91
	ErrLinkDelete     Code = 92
	ErrNotHDF5File    Code = 93
	ErrFileDelete     Code = 94
	ErrFileIndex      Code = 95
	ErrTCopy          Code = 96
	ErrAGetType       Code = 97
	ErrTSetSize       Code = 98
	ErrNotImplemented Code = 99
	ErrNotXLink       Code = 100
	ErrLibReg         Code = 101
	ErrObjInfoFailed  Code = 102
	ErrXLinkNoVal     Code = 103
	ErrXLinkUnpack    Code = 104
	ErrRootNull       Code = 105
	ErrNeedTranspose  Code = 106

	Sentinel Code = 999
)

var messages = map[Code]string{
	NoError:                  "No Error",
	StringLengthZero:         "String length of zero or blank string detected",
	StringLengthTooBig:       "String length longer than maximum allowable length",
	TooManyFilesOpened:       "Too many files opened",
	FileStatusNotRecognized:  "File status was not recognized",
	FileOpenError:            "File-open error",
	NullStringPointer:        "A string pointer is NULL",
	RequestedNewFileExists:   "File Open Error: NEW - File already exists",
	FileFormatNotRecognized:  "File format was not recognized",
	RequestedOldFileNotFound: "File Open Error: OLD - File does not exist",
	MemoryAllocationFailed:   "Memory allocation failed",
	DuplicateChildName:       "Duplicate child name under a parent node",
	ZeroDimensions:           "Node has no dimensions",
	BadNumberOfDimensions:    "Node's number-of-dimensions is not in legal range",
	ChildNotOfGivenParent:    "Specified child is NOT a child of the specified parent",
	InvalidDataType:          "Invalid Data-Type",
	NullPointer:              "A pointer is NULL",
	NoData:                   "Node has no data associated with it",
	EndOutOfDefinedRange:     "Bad end value",
	BadStrideValue:           "Bad stride value",
	MinimumGTMaximum:         "Minimum value is greater than the maximum value",
	DataTypeNotSupported:     "The data format is not support on a particular machine",
	FileCloseError:           "File Close error",
	StartOutOfDefinedRange:   "Bad start value",
	ZeroLengthValue:          "A value of zero is not allowable",
	BadDimensionValue:        "Bad dimension value",
	BadErrorState:            "Error state must be either a 0 (zero) or a 1 (one)",
	UnequalMemoryAndDiskDims: "Unequal dimensional specifications for disk and memory",
	LinksTooDeep:             "Too many levels of links",
	NodeIsNotALink:           "The node is not a link.  It was expected to be a link",
	LinkTargetNotThere:       "The linked-to node does not exist",
	LinkedToFileNotThere:     "The file of a linked-node is not accessable",
	NodeIDZero:               "The node ID has been released",
	InvalidNodeName:          "Node name contains invalid characters",
	FflushError:              "flush of the file failed",
	NullNodeIDPointer:        "The node ID pointer is NULL",
	MaxFileSizeExceeded:      "The maximum size for a file exceeded",

	ErrGLink:          "soft link creation failed",
	ErrNoAtt:          "Node attribute doesn't exist",
	ErrAOpen:          "open of node attribute failed",
	ErrIGetName:       "failed to get node path from ID",
	ErrGMove:          "moving a node group failed",
	ErrGUnlink:        "node group deletion failed",
	ErrGOpen:          "open of a node group failed",
	ErrDGetSpace:      "couldn't get node dataspace",
	ErrDOpen:          "open of the node data failed",
	ErrDExtend:        "couldn't extend the node dataspace",
	ErrDCreate:        "node data creation failed",
	ErrSCreateSimple:  "dataspace creation failed",
	ErrACreate:        "node attribute creation failed",
	ErrGCreate:        "node group creation failed",
	ErrDWrite:         "write to node data failed",
	ErrDRead:          "read of node data failed",
	ErrAWrite:         "write to node attribute failed",
	ErrARead:          "read of node attribute failed",
	ErrFMount:         "file mount failed",
	ErrLinkMove:       "Can't move a linked-to node",
	ErrLinkData:       "Can't change the data for a linked-to node",
	ErrLinkNode:       "Parent of node is a link",
	ErrLinkDelete:     "Can't delete a linked-to node",
	ErrNotHDF5File:    "File does not exist or is not a HDF5 file",
	ErrFileDelete:     "unlink (delete) of file failed",
	ErrFileIndex:      "couldn't get file index from node ID",
	ErrTCopy:          "copy of existing datatype failed",
	ErrAGetType:       "couldn't get attribute datatype",
	ErrTSetSize:       "couldn't set datatype size",
	ErrNotImplemented: "routine not implemented",
	ErrNotXLink:       "Link target is not an HDF5 external link",
	ErrLibReg:         "No external link feature available",
	ErrObjInfoFailed:  "Internal problem with link information",
	ErrXLinkNoVal:     "No value for external link",
	ErrXLinkUnpack:    "Cannot unpack external link",
	ErrRootNull:       "Root descriptor is NULL",
	ErrNeedTranspose:  "dimensions need transposed - open in modify mode",

	Sentinel: "<None>",
}

// Message returns the text ADF tooling shows for c.
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return fmt.Sprintf("error number %d", int(c))
}

// Error makes a Code usable as an errors.Is target.
func (c Code) Error() string { return c.Message() }

// Error kinds group the codes into the broad failure classes callers
// usually branch on.
var (
	ErrValidation  = goerrors.NewKind("invalid argument: %s")
	ErrConsistency = goerrors.NewKind("tree inconsistency: %s")
	ErrStorage     = goerrors.NewKind("storage failure: %s")
	ErrResource    = goerrors.NewKind("resource exhausted: %s")
	ErrPolicy      = goerrors.NewKind("not allowed on a link: %s")
)

// Kind returns the failure class of c.
func (c Code) Kind() *goerrors.Kind {
	switch c {
	case NumberLessThanMinimum, NumberGreaterThanMaximum, StringLengthZero,
		StringLengthTooBig, StringNotAHexString, FileStatusNotRecognized,
		NullStringPointer, RequestedNewFileExists, RequestedOldFileNotFound,
		ZeroDimensions, BadNumberOfDimensions, DataTypeTooLong, InvalidDataType,
		NullPointer, RequestedDataTooLong, EndOutOfDefinedRange, BadStrideValue,
		MinimumGTMaximum, DataTypeNotSupported, StartOutOfDefinedRange,
		ZeroLengthValue, BadDimensionValue, BadErrorState,
		UnequalMemoryAndDiskDims, NodeIDZero, InvalidNodeName, NullNodeIDPointer:
		return ErrValidation
	case DuplicateChildName, ChildNotOfGivenParent, NoData, LinksTooDeep,
		NodeIsNotALink, LinkTargetNotThere, LinkedToFileNotThere,
		NodesNotInSameFile, ErrNoAtt, ErrNotXLink, ErrNeedTranspose,
		ErrFileIndex, SubNodeTableEntriesBad:
		return ErrConsistency
	case TooManyFilesOpened, MemoryAllocationFailed, ErrorZeroingOutMemory,
		MaxFileSizeExceeded:
		return ErrResource
	case ErrLinkMove, ErrLinkData, ErrLinkNode, ErrLinkDelete, ErrNotImplemented:
		return ErrPolicy
	}
	return ErrStorage
}

// Error is returned by every failing engine operation.
type Error struct {
	Code Code
	Op   string
	Err  error

	kinded *goerrors.Error
}

func newError(op string, code Code, cause error) *Error {
	e := &Error{Code: code, Op: op, Err: cause}
	if cause != nil {
		e.kinded = code.Kind().Wrap(cause, code.Message())
	} else {
		e.kinded = code.Kind().New(code.Message())
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Code.Message()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches a Code target against the error's code.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// CodeOf extracts the code of an engine error: NoError for nil and
// Sentinel for errors that did not come from the engine.
func CodeOf(err error) Code {
	if err == nil {
		return NoError
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Sentinel
}

func isKind(err error, k *goerrors.Kind) bool {
	var e *Error
	return errors.As(err, &e) && k.Is(e.kinded)
}

// IsValidation reports a rejected argument; nothing was modified.
func IsValidation(err error) bool { return isKind(err, ErrValidation) }

// IsConsistency reports a tree that does not match the request.
func IsConsistency(err error) bool { return isKind(err, ErrConsistency) }

// IsStorage reports a failure of the underlying container.
func IsStorage(err error) bool { return isKind(err, ErrStorage) }

// IsResource reports an exhausted limit.
func IsResource(err error) bool { return isKind(err, ErrResource) }

// IsPolicy reports an operation refused because it targets a link.
func IsPolicy(err error) bool { return isKind(err, ErrPolicy) }

// ErrorMessage translates a code to its message.
func ErrorMessage(c Code) string { return c.Message() }
