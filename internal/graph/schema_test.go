package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"blogql/internal/database"
	"blogql/internal/models"
	"blogql/internal/testutil"

	"github.com/google/go-cmp/cmp"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T, store database.Store) (*graphql.Schema, *Engine) {
	t.Helper()
	e := NewEngine(store)
	schema, err := NewSchema(e, SchemaOptions{MaxDepth: 10, MaxParallelism: 4})
	require.NoError(t, err)
	return schema, e
}

func exec(t *testing.T, schema *graphql.Schema, query string, vars map[string]interface{}) *graphql.Response {
	t.Helper()
	return schema.Exec(context.Background(), query, "", vars)
}

func errorCodes(resp *graphql.Response) []string {
	codes := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		if code, ok := e.Extensions["code"].(string); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

func TestSchema_AliceScenario(t *testing.T) {
	_, store := testutil.NewStore(t)
	testutil.InsertUser(t, store, "alice", "p", "d", nil)
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `{ getUsers { id username } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getUsers":[{"id":"1","username":"alice"}]}`, string(resp.Data))

	resp = exec(t, schema, `mutation { addPost(title: "Hi", content: "Body", date: "2024-01-01", userId: 1) { title date content userID } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"addPost":[{"title":"Hi","date":"2024-01-01","content":"Body","userID":"1"}]}`, string(resp.Data))
}

func TestSchema_Test(t *testing.T) {
	_, store := testutil.NewStore(t)
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `{ test }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"test":1}`, string(resp.Data))
}

func TestSchema_GetUsersEmpty(t *testing.T) {
	_, store := testutil.NewStore(t)
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `{ getUsers { id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getUsers":[]}`, string(resp.Data))
}

func TestSchema_GetUserByPosition(t *testing.T) {
	_, store := testutil.NewStore(t)
	testutil.InsertUser(t, store, "alice", "p", "d", nil)
	testutil.InsertUser(t, store, "bob", "hunter2", "writes things", testutil.Ptr("bob.png"))
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	query := `query($i: ID!) { getUser(id: $i) { id username password description pfp } }`

	resp := exec(t, schema, query, map[string]interface{}{"i": "1"})
	require.Empty(t, resp.Errors)

	type user struct {
		ID          string  `json:"id"`
		Username    string  `json:"username"`
		Password    string  `json:"password"`
		Description string  `json:"description"`
		Pfp         *string `json:"pfp"`
	}
	var got struct {
		GetUser user `json:"getUser"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &got))

	want := user{ID: "2", Username: "bob", Password: "hunter2", Description: "writes things", Pfp: testutil.Ptr("bob.png")}
	if diff := cmp.Diff(want, got.GetUser); diff != "" {
		t.Errorf("getUser(1) mismatch (-want +got):\n%s", diff)
	}

	resp = exec(t, schema, query, map[string]interface{}{"i": "2"})
	assert.JSONEq(t, `{"getUser":null}`, string(resp.Data))
	assert.Equal(t, []string{models.CodeNotFound}, errorCodes(resp))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []interface{}{"getUser"}, resp.Errors[0].Path)
}

func TestSchema_SnapshotStaysStaleAfterAddPost(t *testing.T) {
	_, store := testutil.NewStore(t)
	testutil.InsertUser(t, store, "alice", "p", "d", nil)
	testutil.InsertPost(t, store, "admin post", "post contents", "8-29-24", 1)
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `mutation($u: ID!) { addPost(title: "T", content: "C", date: "2024-01-01", userId: $u) { title } }`,
		map[string]interface{}{"u": "1"})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"addPost":[{"title":"admin post"},{"title":"T"}]}`, string(resp.Data))

	resp = exec(t, schema, `{ getPosts { title } getUsers { username posts { title } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{
		"getPosts": [{"title":"admin post"}],
		"getUsers": [{"username":"alice","posts":[{"title":"admin post"}]}]
	}`, string(resp.Data))
}

func TestSchema_AddPostStoreError(t *testing.T) {
	_, store := testutil.NewStore(t)
	schema, e := newTestSchema(t, store)
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `mutation { addPost(title: "T", date: "2024-01-01", userId: "42") { postID } }`, nil)
	assert.JSONEq(t, `{"addPost":null}`, string(resp.Data))
	assert.Equal(t, []string{models.CodeStoreWriteError}, errorCodes(resp))
}

func TestSchema_NonNullColumnMissing(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE "Users" ("userID" INTEGER PRIMARY KEY, "username" TEXT, "password" TEXT, "pfp" TEXT)`).Error)
	require.NoError(t, database.EnsureSchema(context.Background(), db))
	require.NoError(t, db.Exec(`INSERT INTO "Users" ("userID", "username", "password") VALUES (1, 'alice', 'p'), (2, NULL, 'p')`).Error)

	schema, e := newTestSchema(t, database.NewStore(db))
	require.NoError(t, e.Load(context.Background()))

	resp := exec(t, schema, `{ getUsers { id password } }`, nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getUsers":[{"id":"1","password":"p"},{"id":"2","password":"p"}]}`, string(resp.Data))

	resp = exec(t, schema, `{ getUsers { id description } }`, nil)
	assert.JSONEq(t, `{"getUsers":[null,null]}`, string(resp.Data))
	assert.Equal(t, []string{models.CodeSchemaConformance, models.CodeSchemaConformance}, errorCodes(resp))

	resp = exec(t, schema, `{ getUsers { username } }`, nil)
	assert.JSONEq(t, `{"getUsers":[{"username":"alice"},null]}`, string(resp.Data))
	assert.Equal(t, []string{models.CodeSchemaConformance}, errorCodes(resp))
}

func TestSchema_RequestDuringLoadingBlocks(t *testing.T) {
	_, store := testutil.NewStore(t)
	testutil.InsertUser(t, store, "alice", "p", "d", nil)
	schema, e := newTestSchema(t, store)

	done := make(chan *graphql.Response, 1)
	go func() {
		done <- schema.Exec(context.Background(), `{ getUsers { username } }`, "", nil)
	}()
	testDone := make(chan *graphql.Response, 1)
	go func() {
		testDone <- schema.Exec(context.Background(), `{ test }`, "", nil)
	}()

	select {
	case <-done:
		t.Fatal("query answered while loading")
	case <-testDone:
		t.Fatal("test answered while loading")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, e.Load(context.Background()))

	select {
	case resp := <-done:
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"getUsers":[{"username":"alice"}]}`, string(resp.Data))
	case <-time.After(time.Second):
		t.Fatal("query still blocked after load")
	}

	select {
	case resp := <-testDone:
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"test":1}`, string(resp.Data))
	case <-time.After(time.Second):
		t.Fatal("test still blocked after load")
	}
}

func TestSchema_FailedLoadSurfacesStoreUnavailable(t *testing.T) {
	schema, e := newTestSchema(t, brokenStore{})
	require.Error(t, e.Load(context.Background()))

	resp := exec(t, schema, `{ getUser(id: "0") { username } }`, nil)
	assert.Equal(t, []string{models.CodeStoreUnavailable}, errorCodes(resp))

	resp = exec(t, schema, `{ test }`, nil)
	assert.Equal(t, []string{models.CodeStoreUnavailable}, errorCodes(resp))
	assert.JSONEq(t, `{"test":null}`, string(resp.Data))
}
