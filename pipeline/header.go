package pipeline

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// programID is the @PG ID/PN value every run stamps into the output
// header, so downstream tools can see which stage last touched a
// record.
const programID = "BSFORMAT"

// AddProgramLine appends a program-group record to h recording this
// run's command line and version, following the same
// NewProgram/AddProgram sequence BAM-writing command-line tools in
// this codebase use to self-identify in the header.
func AddProgramLine(h *sam.Header, cmdLine, version string) error {
	prog := sam.NewProgram(programID, programID, cmdLine, "", version)
	if err := h.AddProgram(prog); err != nil {
		return fmt.Errorf("pipeline: adding program-group line: %w", err)
	}
	return nil
}
