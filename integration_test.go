package relq_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/arllen133/relq"
	"github.com/arllen133/relq/clause"
)

// -- JSON shapes relation columns decode into --

type profileJSON struct {
	ID  int64  `json:"id"`
	Bio string `json:"bio"`
}

type postJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type tagJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type postWithTagsJSON struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Tags  []tagJSON `json:"tags"`
}

// -- Relation declarations shared by the integration tests --

type userRelations struct {
	Profile      relq.CompiledRelation
	Posts        relq.CompiledRelation
	PopularPosts relq.CompiledRelation
	PostsTagged  relq.CompiledRelation
}

type postRelations struct {
	Tags relq.CompiledRelation
}

func declareTestRelations() (userRelations, postRelations) {
	r := relq.NewRelations(relq.SQLite)

	postRels := relq.Define(r, "posts", func(d *relq.Declare) postRelations {
		return postRelations{
			Tags: d.HasManyThrough("tags", tagCfg)(func(q relq.SelectQuery) relq.SelectQuery {
				return q.Select(clause.Column{Name: "id"}, clause.Column{Name: "name"}).
					OrderBy(clause.OrderByColumn{Column: clause.Column{Table: "tags", Name: "id"}})
			}),
		}
	})

	userRels := relq.Define(r, "users", func(d *relq.Declare) userRelations {
		orderedPosts := func(q relq.SelectQuery) relq.SelectQuery {
			return q.Select(clause.Column{Name: "id"}, clause.Column{Name: "title"}).
				OrderBy(clause.OrderByColumn{Column: clause.Column{Table: "posts", Name: "id"}})
		}
		return userRelations{
			Profile: d.HasOne("profile", profileCfg)(selectProfile),
			Posts:   d.HasMany("posts", postCfg)(orderedPosts),
			PopularPosts: d.HasMany("popular_posts", postCfg, func(q relq.SelectQuery) relq.SelectQuery {
				return q.Where(clause.Gt{Column: clause.Column{Table: "posts", Name: "likes"}, Value: 100})
			})(orderedPosts),
			PostsTagged: d.HasMany("posts", postCfg)(func(q relq.SelectQuery) relq.SelectQuery {
				return q.Select(clause.Column{Name: "id"}, clause.Column{Name: "title"}).
					OrderBy(clause.OrderByColumn{Column: clause.Column{Table: "posts", Name: "id"}}).
					WithRelation(postRels.Tags)
			}),
		}
	})

	return userRels, postRels
}

func TestRelationIntegration(t *testing.T) {
	db, session := setupRelationDB(t)
	defer db.Close()

	userRels, postRels := declareTestRelations()
	ctx := context.Background()

	byUserID := clause.OrderByColumn{Column: clause.Column{Table: "users", Name: "id"}}

	t.Run("HasOneNullable", func(t *testing.T) {
		type row struct {
			ID      int64                   `db:"id"`
			Name    string                  `db:"name"`
			Profile relq.JSON[*profileJSON] `db:"profile"`
		}

		var users []row
		q := relq.From("users").
			Select(clause.Column{Name: "id"}, clause.Column{Name: "name"}).
			WithRelation(userRels.Profile).
			OrderBy(byUserID)
		if err := session.Select(ctx, &users, q); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		if len(users) != 3 {
			t.Fatalf("Expected 3 users, got %d", len(users))
		}

		alice := users[0]
		if alice.Profile.Data == nil {
			t.Fatal("Expected alice to have a profile object")
		}
		if alice.Profile.Data.Bio != "gopher" {
			t.Errorf("Expected bio 'gopher', got %q", alice.Profile.Data.Bio)
		}

		bob := users[1]
		if bob.Profile.Data != nil {
			t.Errorf("Expected missing profile to scan as nil, got %+v", bob.Profile.Data)
		}
	})

	t.Run("HasManyOrderedArray", func(t *testing.T) {
		type row struct {
			ID    int64                 `db:"id"`
			Posts relq.JSON[[]postJSON] `db:"posts"`
		}

		var users []row
		q := relq.From("users").
			Select(clause.Column{Name: "id"}).
			WithRelation(userRels.Posts).
			OrderBy(byUserID)
		if err := session.Select(ctx, &users, q); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		alice := users[0]
		titles := make([]string, len(alice.Posts.Data))
		for i, p := range alice.Posts.Data {
			titles[i] = p.Title
		}
		want := []string{"first", "second", "third"}
		if len(titles) != len(want) {
			t.Fatalf("Expected %d posts, got %v", len(want), titles)
		}
		for i := range want {
			if titles[i] != want[i] {
				t.Errorf("Post[%d]: expected %q, got %q", i, want[i], titles[i])
			}
		}

		carol := users[2]
		if carol.Posts.Data == nil || len(carol.Posts.Data) != 0 {
			t.Errorf("Expected empty array for user without posts, got %v", carol.Posts.Data)
		}
	})

	t.Run("HasManyThroughJunction", func(t *testing.T) {
		type row struct {
			ID   int64                `db:"id"`
			Tags relq.JSON[[]tagJSON] `db:"tags"`
		}

		var posts []row
		q := relq.From("posts").
			Select(clause.Column{Name: "id"}).
			WithRelation(postRels.Tags).
			OrderBy(clause.OrderByColumn{Column: clause.Column{Table: "posts", Name: "id"}})
		if err := session.Select(ctx, &posts, q); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		if len(posts) != 4 {
			t.Fatalf("Expected 4 posts, got %d", len(posts))
		}

		// Post 1 carries two of the three tags.
		first := posts[0]
		if len(first.Tags.Data) != 2 {
			t.Fatalf("Expected 2 tags on post 1, got %v", first.Tags.Data)
		}
		if first.Tags.Data[0].Name != "go" || first.Tags.Data[1].Name != "sql" {
			t.Errorf("Unexpected tags on post 1: %v", first.Tags.Data)
		}

		if len(posts[1].Tags.Data) != 1 || posts[1].Tags.Data[0].Name != "json" {
			t.Errorf("Unexpected tags on post 2: %v", posts[1].Tags.Data)
		}

		// Untagged post: empty array, not NULL.
		if posts[2].Tags.Data == nil || len(posts[2].Tags.Data) != 0 {
			t.Errorf("Expected empty tag array on post 3, got %v", posts[2].Tags.Data)
		}
	})

	t.Run("JunctionDuplicatesDoNotFanOut", func(t *testing.T) {
		if _, err := db.Exec(`INSERT INTO posts_tags (post_id, tag_id) VALUES (1, 1)`); err != nil {
			t.Fatalf("Failed to insert duplicate junction row: %v", err)
		}
		defer db.Exec(`DELETE FROM posts_tags WHERE rowid = (SELECT MAX(rowid) FROM posts_tags)`)

		type row struct {
			ID   int64                `db:"id"`
			Tags relq.JSON[[]tagJSON] `db:"tags"`
		}

		var post row
		q := relq.From("posts").
			Select(clause.Column{Name: "id"}).
			WithRelation(postRels.Tags).
			Where(clause.Eq{Column: clause.Column{Table: "posts", Name: "id"}, Value: 1})
		if err := session.Get(ctx, &post, q); err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if len(post.Tags.Data) != 2 {
			t.Errorf("Duplicate junction row fanned out: %v", post.Tags.Data)
		}
	})

	t.Run("CustomizedRelationWithSibling", func(t *testing.T) {
		type row struct {
			ID           int64                 `db:"id"`
			Posts        relq.JSON[[]postJSON] `db:"posts"`
			PopularPosts relq.JSON[[]postJSON] `db:"popular_posts"`
		}

		var alice row
		q := relq.From("users").
			Select(clause.Column{Name: "id"}).
			WithRelation(userRels.Posts, userRels.PopularPosts).
			Where(clause.Eq{Column: clause.Column{Table: "users", Name: "id"}, Value: 1})
		if err := session.Get(ctx, &alice, q); err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		// The customized relation filters; its sibling stays complete.
		if len(alice.Posts.Data) != 3 {
			t.Errorf("Sibling relation affected by customize: %v", alice.Posts.Data)
		}
		if len(alice.PopularPosts.Data) != 2 {
			t.Fatalf("Expected 2 popular posts, got %v", alice.PopularPosts.Data)
		}
		if alice.PopularPosts.Data[0].Title != "second" || alice.PopularPosts.Data[1].Title != "third" {
			t.Errorf("Unexpected popular posts: %v", alice.PopularPosts.Data)
		}
	})

	t.Run("NestedRelations", func(t *testing.T) {
		type row struct {
			ID    int64                         `db:"id"`
			Name  string                        `db:"name"`
			Posts relq.JSON[[]postWithTagsJSON] `db:"posts"`
		}

		var users []row
		q := relq.From("users").
			Select(clause.Column{Name: "id"}, clause.Column{Name: "name"}).
			WithRelation(userRels.PostsTagged).
			OrderBy(byUserID)
		if err := session.Select(ctx, &users, q); err != nil {
			t.Fatalf("Select failed: %v", err)
		}

		alice := users[0]
		if len(alice.Posts.Data) != 3 {
			t.Fatalf("Expected 3 posts for alice, got %v", alice.Posts.Data)
		}

		first := alice.Posts.Data[0]
		if len(first.Tags) != 2 {
			t.Fatalf("Expected 2 nested tags on first post, got %v", first.Tags)
		}
		if first.Tags[0].Name != "go" || first.Tags[1].Name != "sql" {
			t.Errorf("Unexpected nested tags: %v", first.Tags)
		}

		// Deeper rows: untagged posts nest empty arrays.
		if alice.Posts.Data[2].Tags == nil || len(alice.Posts.Data[2].Tags) != 0 {
			t.Errorf("Expected empty nested tag array, got %v", alice.Posts.Data[2].Tags)
		}

		bob := users[1]
		if len(bob.Posts.Data) != 1 || bob.Posts.Data[0].Title != "solo" {
			t.Errorf("Unexpected posts for bob: %v", bob.Posts.Data)
		}
	})

	t.Run("RawQueryRows", func(t *testing.T) {
		q := relq.From("users").
			Select(clause.Column{Name: "id"}, clause.Column{Name: "name"}).
			WithRelation(userRels.Profile).
			OrderBy(byUserID)
		rows, err := session.Query(ctx, q)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id int64
			var name string
			var profile relq.JSON[*profileJSON]
			if err := rows.Scan(&id, &name, &profile); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			count++
		}
		if err := rows.Err(); err != nil {
			t.Fatalf("rows iteration failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 rows, got %d", count)
		}
	})

	t.Run("GetNoRows", func(t *testing.T) {
		type row struct {
			ID int64 `db:"id"`
		}

		var dest row
		q := relq.From("users").
			Select(clause.Column{Name: "id"}).
			Where(clause.Eq{Column: clause.Column{Table: "users", Name: "id"}, Value: 999})
		err := session.Get(ctx, &dest, q)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})
}
