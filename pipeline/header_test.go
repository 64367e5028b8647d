package pipeline

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

func TestAddProgramLineSucceeds(t *testing.T) {
	h, err := sam.NewHeader(nil, nil)
	require.NoError(t, err)
	require.NoError(t, AddProgramLine(h, "bs-format -f abismal", "1.0.0"))
}
