package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeQuestion(t *testing.T, data string) Question {
	t.Helper()
	var q Question
	require.NoError(t, json.Unmarshal([]byte(data), &q))
	return q
}

func TestQuestion_UnmarshalDefaults(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		required bool
		enabled  bool
		points   float64
	}{
		{
			name:     "absent fields",
			data:     `{"id":"q1","type":"mcq","title":"Pick one"}`,
			required: true,
			points:   1,
		},
		{
			name:     "explicit not required",
			data:     `{"id":"q1","type":"mcq","title":"Pick one","required":false}`,
			required: false,
			points:   1,
		},
		{
			name:     "scoring without points",
			data:     `{"id":"q1","type":"mcq","title":"Pick one","scoring":{"enabled":true}}`,
			required: true,
			enabled:  true,
			points:   1,
		},
		{
			name:     "explicit points",
			data:     `{"id":"q1","type":"mcq","title":"Pick one","scoring":{"enabled":true,"points":5}}`,
			required: true,
			enabled:  true,
			points:   5,
		},
		{
			name:     "explicit zero points",
			data:     `{"id":"q1","type":"mcq","title":"Pick one","scoring":{"enabled":true,"points":0}}`,
			required: true,
			enabled:  true,
			points:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := decodeQuestion(t, tt.data)

			assert.Equal(t, tt.required, q.Required)
			assert.Equal(t, tt.enabled, q.Scoring.Enabled)
			assert.Equal(t, tt.points, q.Scoring.Points)
			assert.IsType(t, &SingleChoiceConfig{}, q.Config)
		})
	}
}

func TestQuestion_UnmarshalInvalidConfig(t *testing.T) {
	var q Question
	err := json.Unmarshal([]byte(`{"id":"q1","type":"mcq","config":{"options":"none"}}`), &q)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `question "q1"`)
}

func TestImageConfig_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		image     *ImageRef
		maxImages int
	}{
		{
			name:      "empty config",
			config:    `{}`,
			maxImages: 1,
		},
		{
			name:      "legacy url string",
			config:    `{"imageUrl":"https://cdn/a.png"}`,
			image:     &ImageRef{URL: "https://cdn/a.png"},
			maxImages: 1,
		},
		{
			name:      "legacy upload object",
			config:    `{"imageUrl":{"secure_url":"https://x/y.png","public_id":"p"}}`,
			image:     &ImageRef{URL: "https://x/y.png", PublicID: "p"},
			maxImages: 1,
		},
		{
			name:      "question image wins over legacy field",
			config:    `{"questionImage":{"url":"https://cdn/new.png"},"imageUrl":"https://cdn/old.png"}`,
			image:     &ImageRef{URL: "https://cdn/new.png"},
			maxImages: 1,
		},
		{
			name:      "blank question image falls back to legacy field",
			config:    `{"questionImage":"","imageUrl":"https://cdn/old.png"}`,
			image:     &ImageRef{URL: "https://cdn/old.png"},
			maxImages: 1,
		},
		{
			name:      "explicit max images",
			config:    `{"allowMultipleImages":true,"maxImages":4}`,
			maxImages: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := decodeQuestion(t, `{"id":"q1","type":"image","title":"Look","config":`+tt.config+`}`)

			cfg, ok := q.Config.(*ImageConfig)
			require.True(t, ok)
			assert.Equal(t, tt.maxImages, cfg.MaxImages)
			assert.Equal(t, tt.image, cfg.QuestionImage)
		})
	}
}

func TestImageConfig_MissingConfigKeepsDefaults(t *testing.T) {
	q := decodeQuestion(t, `{"id":"q1","type":"image","title":"Look"}`)

	cfg, ok := q.Config.(*ImageConfig)
	require.True(t, ok)
	assert.Equal(t, 1, cfg.MaxImages)
	assert.Nil(t, cfg.QuestionImage)
}

func TestImageRef_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    ImageRef
		wantErr bool
	}{
		{"plain url", `"https://cdn/a.png"`, ImageRef{URL: "https://cdn/a.png"}, false},
		{"canonical object", `{"url":"https://cdn/a.png","publicId":"forms/a"}`, ImageRef{URL: "https://cdn/a.png", PublicID: "forms/a"}, false},
		{"upload object", `{"secure_url":"https://cdn/b.png","public_id":"forms/b"}`, ImageRef{URL: "https://cdn/b.png", PublicID: "forms/b"}, false},
		{"url preferred over secure_url", `{"url":"https://cdn/a.png","secure_url":"https://cdn/b.png"}`, ImageRef{URL: "https://cdn/a.png"}, false},
		{"number", `42`, ImageRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref ImageRef
			err := json.Unmarshal([]byte(tt.data), &ref)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

func TestImageRef_IsZero(t *testing.T) {
	var missing *ImageRef
	assert.True(t, missing.IsZero())
	assert.True(t, (&ImageRef{URL: "  "}).IsZero())
	assert.False(t, (&ImageRef{URL: "https://cdn/a.png"}).IsZero())
}

func TestRawConfig_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		config string
	}{
		{"object config", `{"id":"q9","type":"ranking","title":"Rank","config":{"a":1}}`, `{"a":1}`},
		{"missing config", `{"id":"q9","type":"ranking","title":"Rank"}`, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := decodeQuestion(t, tt.data)

			raw, ok := q.Config.(*RawConfig)
			require.True(t, ok)
			assert.Equal(t, QuestionType("ranking"), raw.QuestionType())

			encoded, err := json.Marshal(&q)
			require.NoError(t, err)
			var out struct {
				Type   string          `json:"type"`
				Config json.RawMessage `json:"config"`
			}
			require.NoError(t, json.Unmarshal(encoded, &out))
			assert.Equal(t, "ranking", out.Type)
			assert.JSONEq(t, tt.config, string(out.Config))
		})
	}
}

func TestParseClozeAnswerKey(t *testing.T) {
	tests := []struct {
		key   string
		index int
		ok    bool
	}{
		{"blank-0", 0, true},
		{"blank-12", 12, true},
		{"blank-00", 0, false},
		{"blank-01", 0, false},
		{"blank-+1", 0, false},
		{"blank--1", 0, false},
		{"blank-", 0, false},
		{"blank-x", 0, false},
		{"note", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			index, ok := ParseClozeAnswerKey(tt.key)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.index, index)
			if ok {
				assert.Equal(t, tt.key, ClozeAnswerKey(index))
			}
		})
	}
}

func TestDecodeAnswer_ClozeIgnoresNonCanonicalKeys(t *testing.T) {
	payload, err := DecodeAnswer(QuestionTypeCloze, map[string]any{
		"blank-00": "capital",
		"blank-1":  "Paris",
	})
	require.NoError(t, err)

	answer, ok := payload.(ClozeAnswer)
	require.True(t, ok)
	assert.Equal(t, map[int]string{1: "Paris"}, answer.Blanks)
}
