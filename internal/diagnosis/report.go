package diagnosis

import (
	"strings"

	"github.com/Brownie44l1/crop-api/internal/weather"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelText    Level = "text"
)

type Line struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Report is the ordered output of one diagnosis run.
type Report struct {
	Lines   []Line           `json:"lines"`
	Disease string           `json:"disease,omitempty"`
	Weather *weather.Reading `json:"weather,omitempty"`
}

func (r *Report) add(level Level, text string) {
	r.Lines = append(r.Lines, Line{Level: level, Text: text})
}

// Warnings returns the text of every warning line.
func (r *Report) Warnings() []string {
	var out []string
	for _, line := range r.Lines {
		if line.Level == LevelWarning {
			out = append(out, line.Text)
		}
	}
	return out
}

func (r *Report) String() string {
	var sb strings.Builder
	for _, line := range r.Lines {
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
