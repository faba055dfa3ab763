package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Data []float32
	Dims []int64
}

// Style conditions the engine on a speaker.
type Style struct {
	TTL Tensor
	DP  Tensor
}

type styleFile struct {
	TTL *rawTensor `json:"style_ttl"`
	DP  *rawTensor `json:"style_dp"`
}

type rawTensor struct {
	Data json.RawMessage `json:"data"`
	Dims []int64         `json:"dims"`
}

// LoadStyle reads a style profile. A missing file yields an error matching
// fs.ErrNotExist; a file that does not decode yields ErrMalformedStyle.
func LoadStyle(path string) (*Style, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice style: %w", err)
	}

	var f styleFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedStyle, path, err)
	}
	if f.TTL == nil || f.DP == nil {
		return nil, fmt.Errorf("%w: %s: style_ttl and style_dp are required", ErrMalformedStyle, path)
	}

	ttl, err := f.TTL.tensor()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: style_ttl: %w", ErrMalformedStyle, path, err)
	}
	dp, err := f.DP.tensor()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: style_dp: %w", ErrMalformedStyle, path, err)
	}

	return &Style{TTL: ttl, DP: dp}, nil
}

func (r *rawTensor) tensor() (Tensor, error) {
	data, err := flatten(r.Data)
	if err != nil {
		return Tensor{}, err
	}
	if len(r.Dims) == 0 {
		return Tensor{}, errors.New("missing dims")
	}

	want := int64(1)
	for _, d := range r.Dims {
		if d <= 0 {
			return Tensor{}, fmt.Errorf("invalid dims %v", r.Dims)
		}
		want *= d
	}
	if want != int64(len(data)) {
		return Tensor{}, fmt.Errorf("dims %v need %d values, got %d", r.Dims, want, len(data))
	}

	return Tensor{Data: data, Dims: append([]int64(nil), r.Dims...)}, nil
}

// flatten walks arbitrarily nested JSON arrays of numbers.
func flatten(raw json.RawMessage) ([]float32, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing data")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var out []float32
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '[':
				depth++
			case ']':
				depth--
			default:
				return nil, fmt.Errorf("unexpected %q in data", v)
			}
		case float64:
			if depth == 0 {
				return nil, errors.New("data must be an array")
			}
			out = append(out, float32(v))
		default:
			return nil, fmt.Errorf("unexpected value %v in data", v)
		}
	}

	return out, nil
}
