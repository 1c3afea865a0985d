// Package bean builds and caches bean definitions: the ordered property list of a
// Go struct type plus the strategy able to create instances of it.
//
// Two strategies exist:
//   - zero-arg: the struct is created empty (or by a registered factory) and its
//     properties are set one by one. A missing value keeps the property's default.
//   - record: the struct is created by a registered constructor whose parameters
//     mirror the struct fields in order. A missing value makes the record absent.
//
// Factories and records must be registered before their type is first looked up.
//
// Property names and comments are declared with struct tags:
//
//	type Server struct {
//		Host string `bean:"host" comment:"Address to bind"`
//		Port int    `comment:"Listen port" bean:",repeat"`
//		Debug bool  `bean:"-"`
//	}
package bean
