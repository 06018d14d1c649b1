package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	MaxExperience = 5
	MaxEducation  = 5
)

// ErrInvalidData is wrapped by every validation failure of resume data.
var ErrInvalidData = errors.New("invalid resume data")

// Data is the content of a resume built from scratch.
type Data struct {
	Name       string       `mapstructure:"name" json:"name"`
	Location   string       `mapstructure:"location" json:"location"`
	Phone      string       `mapstructure:"phone" json:"phone"`
	Email      string       `mapstructure:"email" json:"email"`
	Summary    string       `mapstructure:"summary" json:"summary"`
	Experience []Experience `mapstructure:"experience" json:"experience"`
	Education  []Education  `mapstructure:"education" json:"education"`
	// Skills accepts a list or a single comma-separated string.
	Skills []string `mapstructure:"skills" json:"skills"`
}

type Experience struct {
	Company  string `mapstructure:"company" json:"company"`
	Location string `mapstructure:"location" json:"location"`
	Role     string `mapstructure:"role" json:"role"`
	Duration string `mapstructure:"duration" json:"duration"`
	// Tasks holds one responsibility per line.
	Tasks string `mapstructure:"tasks" json:"tasks"`
}

type Education struct {
	Degree      string `mapstructure:"degree" json:"degree"`
	Institution string `mapstructure:"institution" json:"institution"`
	Duration    string `mapstructure:"duration" json:"duration"`
}

// LoadData decodes resume data from YAML or JSON and validates it.
func LoadData(r io.Reader) (*Data, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidData)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	return DecodeData(raw)
}

// LoadDataFile reads resume data from path.
func LoadDataFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume data: %w", err)
	}
	defer f.Close()

	return LoadData(f)
}

// DecodeData converts a generic map into Data. Scalars are converted weakly, so
// numbers are accepted where text is expected.
func DecodeData(raw map[string]any) (*Data, error) {
	data := &Data{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           data,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	data.Normalize()

	if err := data.Validate(); err != nil {
		return nil, err
	}

	return data, nil
}

// Normalize trims every field and drops blank skills.
func (d *Data) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Location = strings.TrimSpace(d.Location)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Summary = strings.TrimSpace(d.Summary)

	for i := range d.Experience {
		e := &d.Experience[i]
		e.Company = strings.TrimSpace(e.Company)
		e.Location = strings.TrimSpace(e.Location)
		e.Role = strings.TrimSpace(e.Role)
		e.Duration = strings.TrimSpace(e.Duration)
	}

	for i := range d.Education {
		e := &d.Education[i]
		e.Degree = strings.TrimSpace(e.Degree)
		e.Institution = strings.TrimSpace(e.Institution)
		e.Duration = strings.TrimSpace(e.Duration)
	}

	skills := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	d.Skills = skills
}

func (d *Data) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidData)
	}
	if len(d.Experience) > MaxExperience {
		return fmt.Errorf("%w: at most %d experience entries allowed, got %d", ErrInvalidData, MaxExperience, len(d.Experience))
	}
	if len(d.Education) > MaxEducation {
		return fmt.Errorf("%w: at most %d education entries allowed, got %d", ErrInvalidData, MaxEducation, len(d.Education))
	}
	return nil
}

// Contact returns the "{location} | {phone} | {email}" line.
func (d *Data) Contact() string {
	return fmt.Sprintf("%s | %s | %s", d.Location, d.Phone, d.Email)
}

// Lines splits Tasks into trimmed, non-blank responsibilities.
func (e Experience) Lines() []string {
	var lines []string
	for _, line := range strings.Split(e.Tasks, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Heading returns "{role} at {company} ({duration})".
func (e Experience) Heading() string {
	return fmt.Sprintf("%s at %s (%s)", e.Role, e.Company, e.Duration)
}

// Line returns "{degree}, {institution} ({duration})".
func (e Education) Line() string {
	return fmt.Sprintf("%s, %s (%s)", e.Degree, e.Institution, e.Duration)
}
