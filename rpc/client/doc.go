// Package client implements an mredis client on top of the client transports.
//
// RPCStore encodes every call as a request frame, sends it over a tcp, unix or ws
// transport and decodes the reply with github.com/tidwall/resp. Error replies become
// *store.Error values, so code written against store.IStore works against a local
// store and a remote server alike.
//
// Usage:
//
//	t, _ := client.NewTransport(common.TransportTCP)
//	c, err := client.NewRPCStore(config, t)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//
//	_ = c.Set("foo", "bar")
//	v, ok, _ := c.Get("foo")
package client
