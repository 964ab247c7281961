package labels

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkmemo/internal/memo"
)

var (
	ErrDuplicateLabel = errors.New("memo and tags labels must differ")
	ErrReservedLabel  = errors.New("label \"URL\" is reserved")
	ErrInvalidLabel   = errors.New("memo and tags labels must not contain ':' or line breaks")
)

// templateVar matches {{LINKMEMO_VAR_NAME}} placeholders.
var templateVar = regexp.MustCompile(`\{\{\s*(LINKMEMO_VAR_[A-Z0-9_]+)\s*\}\}`)

// Loader reads the localized labels of the memo document from a YAML file:
//
//	title: Link Memos
//	description: Saved links
//	memo: Memo
//	tags: Tags
type Loader struct {
	filePath string
}

// NewLoader creates a labels loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads the file and returns labels; missing keys keep their defaults.
func (l *Loader) Load() (memo.Labels, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return memo.Labels{}, fmt.Errorf("failed to read labels file: %w", err)
	}
	return Parse(data)
}

// Parse decodes labels YAML after expanding {{LINKMEMO_VAR_*}} placeholders
// from the environment.
func Parse(data []byte) (memo.Labels, error) {
	data = expandTemplateVariables(data)

	labels := memo.DefaultLabels()
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return memo.Labels{}, fmt.Errorf("failed to parse labels yaml: %w", err)
	}

	labels.Title = strings.TrimSpace(labels.Title)
	labels.Description = strings.TrimSpace(labels.Description)
	labels.Memo = strings.TrimSpace(labels.Memo)
	labels.Tags = strings.TrimSpace(labels.Tags)

	if err := validate(labels); err != nil {
		return memo.Labels{}, err
	}
	return labels, nil
}

// validate keeps the "- <label>:" line prefixes unambiguous. Without a ':'
// inside a label, neither prefix can be a prefix of the other.
func validate(l memo.Labels) error {
	for _, label := range []string{l.Memo, l.Tags} {
		if strings.ContainsAny(label, ":\r\n") {
			return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
	}
	if l.Memo != "" && l.Memo == l.Tags {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, l.Memo)
	}
	if l.Memo == "URL" || l.Tags == "URL" {
		return ErrReservedLabel
	}
	return nil
}

// expandTemplateVariables replaces {{LINKMEMO_VAR_X}} with the value of the
// environment variable of the same name; unset variables become "".
func expandTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}
