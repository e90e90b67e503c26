package score

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/stave/fraction"
	"github.com/ByLCY/stave/layout"
)

// Debug is a JSON friendly snapshot of a laid out score.
type Debug struct {
	Name    string        `json:"name"`
	Title   string        `json:"title,omitempty"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Systems []SystemDebug `json:"systems"`
}

type SystemDebug struct {
	NoteStartX float64        `json:"noteStartX"`
	Format     *layout.Result `json:"format"`
	Staves     []StaveDebug   `json:"staves"`
}

type StaveDebug struct {
	Clef   string       `json:"clef"`
	Y      float64      `json:"y"`
	Time   string       `json:"time,omitempty"`
	Voices []VoiceDebug `json:"voices"`
}

type VoiceDebug struct {
	Mode      string          `json:"mode"`
	Ticks     string          `json:"ticks"`
	Tickables []TickableDebug `json:"tickables"`
}

type TickableDebug struct {
	Kind  string  `json:"kind"`
	Ticks string  `json:"ticks"`
	X     float64 `json:"x"`
	// Tuplet 为连音倍率，等于 1 时省略。
	Tuplet string `json:"tuplet,omitempty"`
}

// Debug collects the positions the formatter assigned.
func (s *Score) Debug() Debug {
	d := Debug{Name: s.Name, Title: s.Title, Width: s.width, Height: s.height}
	for _, sys := range s.Systems {
		sd := SystemDebug{Format: sys.Result}
		for _, st := range sys.Staves {
			sd.NoteStartX = st.Stave.NoteStartX()
			std := StaveDebug{Clef: st.Clef.Name, Y: st.Stave.Y}
			if ts, ok := st.Stave.TimeSignature(); ok {
				std.Time = ts.String()
			}
			for _, v := range st.Voices {
				vd := VoiceDebug{Mode: v.Mode().String(), Ticks: v.TotalTicks().String()}
				for _, t := range v.Tickables() {
					td := TickableDebug{
						Kind:  t.Kind().String(),
						Ticks: t.Ticks().String(),
						X:     t.AbsoluteX(),
					}
					if m, ok := t.(multiplied); ok && !m.TickMultiplier().Equals(fraction.FromInt(1)) {
						td.Tuplet = m.TickMultiplier().String()
					}
					vd.Tickables = append(vd.Tickables, td)
				}
				std.Voices = append(std.Voices, vd)
			}
			sd.Staves = append(sd.Staves, std)
		}
		d.Systems = append(d.Systems, sd)
	}
	return d
}

// WriteDebugJSON 将排版快照写入 path，便于调试。
func WriteDebugJSON(s *Score, path string) error {
	if s == nil {
		return nil
	}
	data, err := json.MarshalIndent(s.Debug(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
