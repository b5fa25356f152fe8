package output

// ArtifactStore persists stage outputs and the final summary for one run.
// Writes are keyed and idempotent: re-running a stage overwrites its artifact.
type ArtifactStore interface {
	WriteArtifact(key string, data any) error
	WriteSummary(name string, text string) error
	Dir() string
}
