package entities

import "fmt"

// ActionKind identifies one of the four picker-driven actions.
type ActionKind int

const (
	// OpenFile selects an existing document and reads its content.
	OpenFile ActionKind = iota + 1
	// SaveFile creates (or selects) a document to be written later via ExportData.
	SaveFile
	// OpenFolder selects a directory tree for reading.
	OpenFolder
	// SaveFolder selects a directory tree for writing.
	SaveFolder
)

// CorrelationID tags a picker request so its result can be routed back.
// Ids are reused per kind, so two in-flight requests of the same kind are
// indistinguishable.
type CorrelationID int

// Wire correlation ids, one per ActionKind.
const (
	OpenFileID   CorrelationID = 1
	SaveFileID   CorrelationID = 2
	OpenFolderID CorrelationID = 3
	SaveFolderID CorrelationID = 4
)

// DefaultGateRequestCode identifies permission-result events.
// It must never collide with an action correlation id.
const DefaultGateRequestCode = 1234

// AllActionKinds lists the kinds in wire order.
func AllActionKinds() []ActionKind {
	return []ActionKind{OpenFile, SaveFile, OpenFolder, SaveFolder}
}

// Valid reports whether k is one of the four known kinds.
func (k ActionKind) Valid() bool {
	return k >= OpenFile && k <= SaveFolder
}

// CorrelationID returns the wire id for the kind.
func (k ActionKind) CorrelationID() CorrelationID {
	return CorrelationID(k)
}

// IsImport reports whether the kind reads from the selected resource.
// Import kinds report failures through OnImportFailed, the rest through OnExportFailed.
func (k ActionKind) IsImport() bool {
	return k == OpenFile || k == OpenFolder
}

// IsTree reports whether the kind selects a directory tree.
func (k ActionKind) IsTree() bool {
	return k == OpenFolder || k == SaveFolder
}

func (k ActionKind) String() string {
	switch k {
	case OpenFile:
		return "open_file"
	case SaveFile:
		return "save_file"
	case OpenFolder:
		return "open_folder"
	case SaveFolder:
		return "save_folder"
	default:
		return fmt.Sprintf("action(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k ActionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid action kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *ActionKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseActionKind(string(text))
	if !ok {
		return fmt.Errorf("unknown action kind %q", string(text))
	}
	*k = parsed
	return nil
}

// ParseActionKind maps the String form back to an ActionKind.
func ParseActionKind(s string) (ActionKind, bool) {
	for _, k := range AllActionKinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// KindForCorrelation maps a wire id back to its ActionKind.
func KindForCorrelation(id CorrelationID) (ActionKind, bool) {
	k := ActionKind(id)
	if !k.Valid() {
		return 0, false
	}
	return k, true
}

// Stage describes what replaying a PendingAction has to do.
type Stage int

const (
	// StagePicker means the picker has not been shown yet.
	StagePicker Stage = iota
	// StageResult means the picker already returned a handle that still needs routing.
	StageResult
	// StageExport means a payload is waiting to be written to a known handle.
	StageExport
)

func (s Stage) String() string {
	switch s {
	case StagePicker:
		return "picker"
	case StageResult:
		return "result"
	case StageExport:
		return "export"
	default:
		return "unknown"
	}
}

// PendingAction is a request deferred until the missing capabilities are granted.
type PendingAction struct {
	// Handle is set when the picker already answered, or for exports. An
	// export may carry no handle; it then fails once the gate lets it through.
	Handle ResourceHandle

	// PreferredName is the suggested document name for SaveFile.
	PreferredName string

	// Payload holds export bytes for the whole permission round-trip.
	Payload []byte

	Kind          ActionKind
	CorrelationID CorrelationID
}

// NewPendingAction creates a picker-stage PendingAction for kind.
func NewPendingAction(kind ActionKind) PendingAction {
	return PendingAction{Kind: kind, CorrelationID: kind.CorrelationID()}
}

// Stage derives the replay stage from which fields are set.
func (p PendingAction) Stage() Stage {
	switch {
	case p.Payload != nil:
		return StageExport
	case !p.Handle.IsZero():
		return StageResult
	default:
		return StagePicker
	}
}

// IsExport reports whether the action is a deferred ExportData call.
func (p PendingAction) IsExport() bool {
	return p.Stage() == StageExport
}

// FailsAsImport reports whether a denial of this action is reported through
// OnImportFailed rather than OnExportFailed.
func (p PendingAction) FailsAsImport() bool {
	return !p.IsExport() && p.Kind.IsImport()
}

func (p PendingAction) String() string {
	return fmt.Sprintf("{%s id=%d stage=%s}", p.Kind, p.CorrelationID, p.Stage())
}
