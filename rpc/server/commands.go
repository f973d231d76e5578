package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ValentinKolb/mredis/lib/store"
	"github.com/ValentinKolb/mredis/rpc/protocol"
)

// Reply texts shared by several commands
const (
	msgNotSupported = "not supported"
	msgInvalidIndex = "invalid DB index"
)

// CommandFunc executes a command. args[0] is the command name, the argument
// count has already been checked against the registry.
type CommandFunc func(ctx context.Context, s *Server, args []string) protocol.Reply

// Command is one entry of the command registry
type Command struct {
	Name  string // exact, case-sensitive name
	Arity int    // number of arguments including the name
	Usage string
	Exec  CommandFunc
}

// Commands is the fixed command registry, looked up by linear scan
var Commands = []Command{
	{Name: "SET", Arity: 3, Usage: "SET key value", Exec: cmdSet},
	{Name: "GET", Arity: 2, Usage: "GET key", Exec: cmdGet},
	{Name: "EXPIRE", Arity: 3, Usage: "EXPIRE key marker", Exec: cmdExpire},
	{Name: "TTL", Arity: 2, Usage: "TTL key", Exec: cmdTTL},
	{Name: "SAVE", Arity: 1, Usage: "SAVE", Exec: cmdSave},
	{Name: "KEYS", Arity: 2, Usage: "KEYS pattern", Exec: cmdKeys},
	{Name: "SELECT", Arity: 2, Usage: "SELECT index", Exec: cmdSelect},
}

// lookupCommand returns the registry entry for name or nil
func lookupCommand(name string) *Command {
	for i := range Commands {
		if Commands[i].Name == name {
			return &Commands[i]
		}
	}
	return nil
}

// usageError is the reply for a wrong number of arguments
func usageError(cmd *Command) protocol.Reply {
	return protocol.Error(fmt.Sprintf("wrong number of arguments for '%s', usage: %s", cmd.Name, cmd.Usage))
}

// errorReply turns a store error into a reply, store messages are sent unchanged
func errorReply(err error) protocol.Reply {
	var serr *store.Error
	if errors.As(err, &serr) {
		return protocol.Error(serr.Msg)
	}
	return protocol.ErrorFrom(err)
}

// --------------------------------------------------------------------------
// Command implementations
// --------------------------------------------------------------------------

func cmdSet(_ context.Context, s *Server, args []string) protocol.Reply {
	if err := s.store.Set(args[1], args[2]); err != nil {
		return errorReply(err)
	}
	return protocol.OK
}

func cmdGet(_ context.Context, s *Server, args []string) protocol.Reply {
	val, ok, err := s.store.Get(args[1])
	if err != nil {
		return errorReply(err)
	}
	if !ok {
		return protocol.NilBulk()
	}
	return protocol.BulkString(val)
}

func cmdExpire(_ context.Context, s *Server, args []string) protocol.Reply {
	if err := s.store.Expire(args[1], args[2]); err != nil {
		return errorReply(err)
	}
	return protocol.OK
}

func cmdTTL(_ context.Context, s *Server, args []string) protocol.Reply {
	marker, ok, err := s.store.TTL(args[1])
	if err != nil {
		return errorReply(err)
	}
	if !ok {
		return protocol.NilBulk()
	}
	return protocol.BulkString(marker)
}

func cmdSave(ctx context.Context, s *Server, _ []string) protocol.Reply {
	if err := s.store.Save(ctx); err != nil {
		SnapshotLogger.Errorf("SAVE to %s failed: %v", s.snapshotLocation(), err)
		return errorReply(err)
	}
	SnapshotLogger.Infof("Saved snapshot to %s", s.snapshotLocation())
	return protocol.OK
}

func cmdKeys(_ context.Context, s *Server, args []string) protocol.Reply {
	keys, truncated, err := s.store.Keys(args[1])
	if err != nil {
		return errorReply(err)
	}
	if truncated {
		Logger.Warningf("KEYS %q truncated to %d keys", args[1], len(keys))
	}
	return protocol.Array(keys)
}

func cmdSelect(_ context.Context, s *Server, args []string) protocol.Reply {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return protocol.Error(msgInvalidIndex)
	}
	if err := s.store.Select(index); err != nil {
		return errorReply(err)
	}
	return protocol.OK
}
