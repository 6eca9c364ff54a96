package dataset_test

import (
	"fmt"

	"github.com/zoobzio/dataset"
	"github.com/zoobzio/dataset/mssql"
	"github.com/zoobzio/dataset/postgres"
)

func Example() {
	ds := dataset.New(postgres.New()).
		From("items").
		Where(dataset.Hash{{Key: "active", Value: true}}).
		Order(dataset.Desc("price")).
		Limit(10)

	sql, err := ds.SelectSQL()
	if err != nil {
		panic(err)
	}
	fmt.Println(sql)
	// Output: SELECT * FROM "items" WHERE ("active" IS TRUE) ORDER BY "price" DESC LIMIT 10
}

func ExampleDataset_Where() {
	ds := dataset.New(dataset.NewGeneric()).From("items")

	sql, _ := ds.Where(dataset.Hash{{Key: "a", Value: 1}, {Key: "b", Value: []any{2, 3}}}).SelectSQL()
	fmt.Println(sql)

	sql, _ = ds.Where("price > ?", 10).Exclude(dataset.Hash{{Key: "name", Value: nil}}).SelectSQL()
	fmt.Println(sql)
	// Output:
	// SELECT * FROM "items" WHERE (("a" = 1) AND ("b" IN (2, 3)))
	// SELECT * FROM "items" WHERE ((price > 10) AND ("name" IS NOT NULL))
}

func ExampleDataset_InnerJoin() {
	sql, _ := dataset.New(dataset.NewGeneric()).
		From("posts").
		InnerJoin("users", dataset.Hash{{Key: "id", Value: "user_id"}}).
		Select(dataset.S("posts__title"), dataset.S("users__name___author")).
		SelectSQL()
	fmt.Println(sql)
	// Output: SELECT "posts"."title", "users"."name" AS "author" FROM "posts" INNER JOIN "users" ON ("users"."id" = "posts"."user_id")
}

func ExampleDataset_UpdateSQL() {
	sql, _ := dataset.New(mssql.New()).
		From("items").
		Where(dataset.Hash{{Key: "id", Value: 7}}).
		UpdateSQL(dataset.Hash{{Key: "name", Value: "widget"}})
	fmt.Println(sql)
	// Output: UPDATE [items] SET [name] = N'widget' WHERE ([id] = 7)
}
