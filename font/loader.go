package font

import (
	"bytes"
	"errors"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
)

// LoadFromBytes parses font data a host collaborator has already read from
// wherever it keeps fonts (embedded assets, a fetched package, a database)
// into loaded faces. It returns multiple fonts for TTC (collection) data.
func LoadFromBytes(data []byte) ([]*Font, error) {
	if len(data) < 4 {
		return nil, errors.New("font data too short")
	}
	if isTTC(data) {
		return loadTTC(data)
	}
	return loadSingle(data, 0)
}

func isTTC(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "ttcf"
}

func loadTTC(data []byte) ([]*Font, error) {
	resource := bytes.NewReader(data)
	faces, err := gotext.ParseTTC(resource)
	if err != nil {
		return nil, fmt.Errorf("parse TTC: %w", err)
	}

	fonts := make([]*Font, 0, len(faces))
	for i, face := range faces {
		fonts = append(fonts, &Font{
			face:  face,
			Info:  extractInfo(face),
			Index: i,
		})
	}
	return fonts, nil
}

func loadSingle(data []byte, index int) ([]*Font, error) {
	resource := bytes.NewReader(data)
	face, err := gotext.ParseTTF(resource)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	return []*Font{{
		face:  face,
		Info:  extractInfo(face),
		Index: index,
	}}, nil
}

// extractInfo derives FontInfo from a parsed face's name and OS/2 tables.
func extractInfo(face *gotext.Face) FontInfo {
	info := FontInfo{
		Style:   StyleNormal,
		Weight:  WeightNormal,
		Stretch: StretchNormal,
	}
	if face.Font == nil {
		return info
	}

	desc := face.Font.Describe()
	info.Family = desc.Family
	info.FullName = desc.Family

	switch desc.Aspect.Style {
	case gotext.StyleItalic:
		info.Style = StyleItalic
	case gotext.StyleNormal:
		info.Style = StyleNormal
	default:
		info.Style = StyleOblique
	}

	info.Weight = Weight(desc.Aspect.Weight)
	if info.Weight == 0 {
		info.Weight = WeightNormal
	}

	info.Stretch = Stretch(desc.Aspect.Stretch)
	if info.Stretch == 0 {
		info.Stretch = StretchNormal
	}

	return info
}
