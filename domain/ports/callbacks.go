package ports

// Callbacks are the terminal notifications delivered to the native caller.
// Each originating request produces at most one of them.
type Callbacks interface {
	OnFileSelected(path string, data []byte)
	OnFileSaved(path string)
	OnFolderSelected(path string)
	OnFolderSaved(path string)
	OnExportFailed()
	OnImportFailed()
}
