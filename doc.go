// Package weburl implements the WHATWG URL Standard: the basic URL
// parser and serializer, host parsing with IDNA, the
// application/x-www-form-urlencoded codec and SearchParams bound
// to the query of a URL.
//
//	u, err := weburl.Parse("https://example.org:443/a/../b?x=1", nil)
//	if err != nil {
//		return err
//	}
//	u.SearchParams().Append("y", "2")
//	fmt.Println(u) // https://example.org/b?x=1&y=2
package weburl
