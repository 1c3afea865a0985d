package resource_test

import (
	"fmt"

	"configbean/raw"
	"configbean/resource"
)

func ExampleDocument_Marshal() {
	doc := resource.NewDocument()
	_ = doc.Set("server.port", raw.Commented{Value: 8080, Comments: []string{"Port to listen on"}})
	_ = doc.Set("server.host", "localhost")

	out, err := doc.Marshal()
	if err != nil {
		panic(err)
	}

	fmt.Print(string(out))
	// Output:
	// server:
	//   # Port to listen on
	//   port: 8080
	//   host: localhost
}
