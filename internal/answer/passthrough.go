package answer

import "context"

const passthroughPreamble = "**Simulated AI Answer:**\n\nBased on your documents, I found the following information:\n\n"

// Passthrough returns the retrieved context verbatim under a fixed preamble.
type Passthrough struct{}

func (Passthrough) Generate(_ context.Context, _ string, retrieved string) (string, error) {
	return passthroughPreamble + retrieved, nil
}
