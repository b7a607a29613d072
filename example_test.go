package pgintrospect_test

import (
	"context"
	"fmt"
	"log"

	"github.com/pgschema/pgintrospect"
)

// ExampleDiscover shows how to read a schema and run a typed select.
func ExampleDiscover() {
	ctx := context.Background()

	s, err := pgintrospect.Discover(ctx, pgintrospect.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "myapp",
		User:     "postgres",
		Schema:   "public",
	}, pgintrospect.Options{Strings: []string{"jsonb"}})
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range s.GetSortedTableNames() {
		fmt.Println(name)
	}
}

// ExampleNewRESTClient shows a select sent to a PostgREST endpoint.
func ExampleNewRESTClient() {
	ctx := context.Background()

	data := []byte(`{"version":1,"schema":"public","tables":[{"name":"users","attributes":[
		{"name":"id","position":1,"type":{"kind":"number"}},
		{"name":"status","position":2,"type":{"kind":"string"}}]}]}`)
	s, err := pgintrospect.DecodeSchema(data, "json")
	if err != nil {
		log.Fatal(err)
	}

	c, err := pgintrospect.NewRESTClient("http://localhost:3000", s, "")
	if err != nil {
		log.Fatal(err)
	}
	users, err := c.Table("users")
	if err != nil {
		log.Fatal(err)
	}
	rows, err := users.Select("id").Where("status", "active").Limit(10).Fetch(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(rows))
}
