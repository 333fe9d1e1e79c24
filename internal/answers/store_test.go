package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/canvas-engine/internal/parse"
	"github.com/pdiddy/canvas-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.AnswersConfig{DBPath: filepath.Join(t.TempDir(), "nested", "answers.db")}
	store, err := NewStore(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	store.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return store
}

func TestSaveGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	id := parse.QuestionID("Who is the buyer?", types.SkillAskUserQuestions)

	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: id, Answer: "CFOs", Title: "Who is the buyer?", Skill: types.SkillAskUserQuestions}))
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CFOs", got.Answer)
	assert.Equal(t, "Who is the buyer?", got.Title)
	assert.Equal(t, types.SkillAskUserQuestions, got.Skill)
	assert.True(t, got.UpdatedAt.Equal(store.now()))

	// Replacing keeps the title when the update omits it.
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: id, Answer: "Controllers"}))
	got, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Controllers", got.Answer)
	assert.Equal(t, "Who is the buyer?", got.Title)
}

func TestSaveRejectsCardIDs(t *testing.T) {
	store := testStore(t)
	err := store.Save(context.Background(), types.Answer{QuestionID: "thesis_1_abc", Answer: "x"})
	assert.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "q_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: "q_b", Answer: "2", Skill: types.SkillExcavate}))
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: "q_a", Answer: "1", Skill: types.SkillAskUserQuestions}))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "q_a", all[0].QuestionID)

	filtered, err := store.List(ctx, types.SkillExcavate)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "q_b", filtered[0].QuestionID)

	require.NoError(t, store.Delete(ctx, "q_b"))
	require.NoError(t, store.Delete(ctx, "q_b"))
	all, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestForResponse(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := parse.NewParser()
	resp := p.Parse(parse.Input{
		Text:  "1. What is the budget?\n2. Who signs off?\n",
		Skill: "askuserquestions",
	})
	ids := resp.QuestionIDs()
	require.Len(t, ids, 2)

	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: ids[1], Answer: "The board"}))
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: "q_unrelated", Answer: "x"}))

	got, err := store.ForResponse(ctx, resp)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "The board", got[ids[1]].Answer)

	// Re-parsing the same text reattaches the answer.
	again := p.Parse(parse.Input{Text: "1. What is the budget?\n2. Who signs off?\n", Skill: "askuserquestions"})
	got, err = store.ForResponse(ctx, again)
	require.NoError(t, err)
	assert.Contains(t, got, ids[1])
}

func TestForResponseNoQuestions(t *testing.T) {
	store := testStore(t)
	got, err := store.ForResponse(context.Background(), &types.ParsedResponse{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportImport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: "q_1", Answer: "yes", Title: "Ship it?"}))
	require.NoError(t, store.Save(ctx, types.Answer{QuestionID: "q_2", Answer: "no"}))

	var jsonOut bytes.Buffer
	require.NoError(t, store.Export(ctx, &jsonOut, FormatJSON))
	var decoded []types.Answer
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &decoded))
	assert.Len(t, decoded, 2)

	var yamlOut bytes.Buffer
	require.NoError(t, store.Export(ctx, &yamlOut, FormatYAML))
	var list []types.Answer
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Ship it?", list[0].Title)

	other := testStore(t)
	input := yamlOut.String() + "- question_id: q_3\n  answer: \"\"\n- question_id: card_1\n  answer: bad\n"
	var progress bytes.Buffer
	summary, err := other.Import(ctx, strings.NewReader(input), &progress)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Saved: 2, Skipped: 1, Failed: 1}, summary)
	assert.Equal(t, 4, summary.Total())
	assert.True(t, summary.HasFailures())
	assert.Contains(t, progress.String(), "failed  card_1")

	got, err := other.Get(ctx, "q_1")
	require.NoError(t, err)
	assert.Equal(t, "yes", got.Answer)
}

func TestExportUnknownFormat(t *testing.T) {
	store := testStore(t)
	assert.Error(t, store.Export(context.Background(), &bytes.Buffer{}, "xml"))
}
