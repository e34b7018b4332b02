package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossQuestionJSONShapes(t *testing.T) {
	questions := []CrossQuestion{
		PlainQuestion("Why Kafka over RabbitMQ?"),
		QuestionAnswer("How do you size partitions?", "By target throughput per consumer."),
	}

	data, err := json.Marshal(questions)
	require.NoError(t, err)
	assert.JSONEq(t, `["Why Kafka over RabbitMQ?",{"question":"How do you size partitions?","answer":"By target throughput per consumer."}]`, string(data))

	var decoded []CrossQuestion
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, questions, decoded)
	assert.True(t, decoded[0].IsPlain())
	assert.False(t, decoded[1].IsPlain())
}

func TestCrossQuestionRejectsOtherShapes(t *testing.T) {
	var q CrossQuestion
	assert.Error(t, json.Unmarshal([]byte(`42`), &q))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &q))
}

func TestConformQuestionsUsesOneShape(t *testing.T) {
	mixed := []CrossQuestion{
		PlainQuestion("Why Kafka?"),
		QuestionAnswer("How?", "Like this"),
		QuestionAnswer("When?", ""),
	}

	pairs, err := json.Marshal(ConformQuestions(mixed, QuestionKindPair))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question":"Why Kafka?","answer":""},{"question":"How?","answer":"Like this"},{"question":"When?","answer":""}]`, string(pairs))

	plain, err := json.Marshal(ConformQuestions(mixed, QuestionKindPlain))
	require.NoError(t, err)
	assert.JSONEq(t, `["Why Kafka?","How?","When?"]`, string(plain))
}

func TestCrossQuestionKeepsEmptyAnswerPair(t *testing.T) {
	var q CrossQuestion
	require.NoError(t, json.Unmarshal([]byte(`{"question":"Why?","answer":""}`), &q))
	assert.False(t, q.IsPlain())

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"question":"Why?","answer":""}`, string(data))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, TopicStateNoContent, StateOf(nil))
	assert.Equal(t, TopicStateWithContent, StateOf(&CurrentVersion{}))
}
