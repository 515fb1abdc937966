package adfh

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/robert-malhotra/go-adfh/internal/dtype"
)

// Hidden entries. The leading space cannot survive ValidateName, so these
// never collide with node names.
const (
	hiddenData        = " data"
	hiddenLink        = " link"
	hiddenPath        = " path"
	hiddenFile        = " file"
	hiddenFormat      = " format"
	hiddenVersion     = " hdf5version"
	hiddenLegacyStamp = " version"
)

// Node attributes.
const (
	attrName  = "name"
	attrLabel = "label"
	attrType  = "type"
	attrOrder = "order"
)

func isHidden(name string) bool { return strings.HasPrefix(name, " ") }

// ValidateName trims surrounding white space from raw and checks the
// result can name a node.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		return "", fail(StringLengthZero, nil)
	case len(name) > MaxNameLength:
		return "", fail(StringLengthTooBig, errors.Errorf("%d characters", len(name)))
	case name == "." || strings.Contains(name, "/"):
		return "", fail(InvalidNodeName, errors.Errorf("%q", name))
	}
	return name, nil
}

// ValidateType normalizes a data type code. LK is reserved for link nodes
// and is not accepted here.
func ValidateType(code string) (dtype.Code, error) {
	c, err := dtype.Parse(code)
	switch {
	case errors.Is(err, dtype.ErrUnsupported):
		return "", fail(DataTypeNotSupported, err)
	case err != nil:
		return "", fail(InvalidDataType, err)
	case c == dtype.LK:
		return "", fail(InvalidDataType, errors.Errorf("%q", code))
	}
	return c, nil
}

func validateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return fail(StringLengthTooBig, errors.Errorf("label of %d characters", len(label)))
	}
	return nil
}
