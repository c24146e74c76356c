package adapter

import "context"

// AudioProcessor prepares stored audio for the speech engine.
type AudioProcessor interface {
	// Duration measures the length of a local audio file in seconds.
	Duration(ctx context.Context, localPath string) (float64, error)

	// Normalize converts the file into the engine-ready form and returns the
	// resulting path. May return the input path unchanged when the file is
	// already in the target format.
	Normalize(ctx context.Context, localPath string) (string, error)
}
