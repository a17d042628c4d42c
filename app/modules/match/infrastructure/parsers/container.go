package parsers

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/faults"
)

// ContainerParser implements the Parser interface for the legacy export
// container: a single JSON object whose fields are strings, each holding a
// nested JSON array of flat records for one entity kind.
type ContainerParser struct{}

// NewContainerParser creates a new container parser instance.
func NewContainerParser() *ContainerParser {
	return &ContainerParser{}
}

// Parse decodes the container content. Absent or blank fields yield empty
// lists; a malformed fragment is a validation failure naming the kind; a
// malformed top-level container is a validation failure for "container".
// Parse is a pure transformation with no side effects.
func (p *ContainerParser) Parse(data []byte) (*matchdto.Container, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, faults.Validation("container", "import content is empty")
	}
	if !gjson.ValidBytes(data) {
		return nil, faults.Validation("container", "import content is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, faults.Validation("container", "import content is not a JSON object")
	}

	container := &matchdto.Container{}

	if err := decodeFragment(root, "club", &container.Clubs); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "match", &container.Matches); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "stage", &container.Stages); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "enrolled", &container.Enrolled); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "score", &container.Scores); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "member", &container.Members); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "tag", &container.Tags); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "squad", &container.Squads); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "team", &container.Teams); err != nil {
		return nil, err
	}
	if err := decodeFragment(root, "classification", &container.Classifications); err != nil {
		return nil, err
	}

	return container, nil
}

// ParseFrom reads the full container content from r and parses it. A read
// fault (e.g. a truncated transport stream) is fatal, not a validation
// failure, since it is not a correctable input defect.
func (p *ContainerParser) ParseFrom(r io.Reader) (*matchdto.Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, faults.Fatal("failed to read import content", err)
	}
	return p.Parse(data)
}

// decodeFragment unmarshals the named field's nested JSON fragment into
// dest. Each field is independently parsed so one malformed kind is
// reported by name.
func decodeFragment(root gjson.Result, kind string, dest any) error {
	field := root.Get(kind)
	if !field.Exists() {
		return nil
	}
	if field.Type != gjson.String {
		return faults.Validationf(kind, "field is not a string-wrapped fragment (got %s)", field.Type)
	}
	fragment := strings.TrimSpace(field.String())
	if fragment == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(fragment), dest); err != nil {
		return faults.ValidationWrap(kind, "malformed record fragment", err)
	}
	return nil
}
