/*
Package protocol implements the text protocol spoken between mredis clients and the server.

Requests are arrays of bulk strings:

	*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n

FrameReader cuts a connection stream into such frames and ParseRequest turns a
frame into its argument tokens. The parser is line based: the announced bulk
lengths are not checked, so arguments cannot contain line breaks.

Replies are built with the Reply constructors and serialized with Reply.Encode:

	+OK\r\n                    SimpleString("OK")
	-key not exists\r\n        Error("key not exists")
	:42\r\n                    Integer(42)
	$3\r\nbar\r\n              BulkString("bar")
	$-1\r\n                    NilBulk()
	*1\r\n$3\r\nfoo\r\n         Array([]string{"foo"})

EncodeCommand is the client side counterpart of ParseRequest.
*/
package protocol
