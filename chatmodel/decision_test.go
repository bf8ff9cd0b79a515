package chatmodel_test

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, js string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(js), &v))
	return v
}

func TestClassify_Answer(t *testing.T) {
	d, err := chatmodel.Classify(parse(t, `{"type":"text","text":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, chatmodel.DecisionAnswer, d.Kind())
	assert.Equal(t, &chatmodel.Answer{Text: "hello"}, d)

	d, err = chatmodel.Classify(parse(t, `{"type":"text","text":""}`))
	require.NoError(t, err)
	assert.Equal(t, &chatmodel.Answer{}, d)
}

func TestClassify_SingleTool(t *testing.T) {
	d, err := chatmodel.Classify(parse(t, `{"type":"tool","name":"weather_search","input":{"city":"Paris","date":"2024-01-01"}}`))
	require.NoError(t, err)
	require.Equal(t, chatmodel.DecisionTool, d.Kind())
	st := d.(*chatmodel.SingleTool)
	assert.Equal(t, "weather_search", st.Name)
	assert.Equal(t, map[string]any{"city": "Paris", "date": "2024-01-01"}, st.Arguments)

	// any non-text type is a tool call
	d, err = chatmodel.Classify(parse(t, `{"type":"function","name":"order_info","input":{}}`))
	require.NoError(t, err)
	assert.Equal(t, &chatmodel.SingleTool{Name: "order_info", Arguments: map[string]any{}}, d)
}

func TestClassify_ToolChain(t *testing.T) {
	d, err := chatmodel.Classify(parse(t, `[
		{"type":"tool","name":"book_flight","input":{"departure_city":"Paris"}},
		{"type":"tool","name":"order_info","input":{"order":"?"}}
	]`))
	require.NoError(t, err)
	require.Equal(t, chatmodel.DecisionChain, d.Kind())
	chain := d.(*chatmodel.ToolChain)
	assert.Equal(t, []string{"book_flight", "order_info"}, chain.Names())
	assert.Equal(t, []chatmodel.ChainStep{{Name: "book_flight"}, {Name: "order_info"}}, chain.Steps)

	// a one element array is still a chain
	d, err = chatmodel.Classify(parse(t, `[{"type":"tool","name":"x","input":{}}]`))
	require.NoError(t, err)
	assert.Equal(t, chatmodel.DecisionChain, d.Kind())
}

func TestClassify_Unrecognized(t *testing.T) {
	tcases := []string{
		`[]`,
		`"just text"`,
		`42`,
		`null`,
		`true`,
		`{}`,
		`{"text":"no type"}`,
		`{"type":""}`,
		`{"type":1,"name":"x","input":{}}`,
		`{"type":"text"}`,
		`{"type":"text","text":5}`,
		`{"type":"tool","input":{}}`,
		`{"type":"tool","name":"","input":{}}`,
		`{"type":"tool","name":"x"}`,
		`{"type":"tool","name":"x","input":null}`,
		`{"type":"tool","name":"x","input":"city=Paris"}`,
		`[{"type":"tool","name":"x","input":{}}, "oops"]`,
		`[{"name":"x","input":{}}]`,
		`[{"type":"tool","input":{}}]`,
		`[{"type":"tool","name":"x"}]`,
		`[[{"type":"tool","name":"x","input":{}}]]`,
	}
	for _, tc := range tcases {
		t.Run(tc, func(t *testing.T) {
			d, err := chatmodel.Classify(parse(t, tc))
			require.Error(t, err)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, chatmodel.ErrUnrecognizedDecisionShape), err.Error())
		})
	}
}

func TestClassify_ChainDropsStepInput(t *testing.T) {
	for range 20 {
		n := gofakeit.IntRange(1, 6)
		var raw []any
		var names []string
		for range n {
			name := gofakeit.Word() + "_" + gofakeit.Word()
			names = append(names, name)
			raw = append(raw, map[string]any{
				"type":  "tool",
				"name":  name,
				"input": map[string]any{"city": gofakeit.City()},
			})
		}
		d, err := chatmodel.Classify(raw)
		require.NoError(t, err)
		chain := d.(*chatmodel.ToolChain)
		assert.Equal(t, names, chain.Names())
	}
}
