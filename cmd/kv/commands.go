package kv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/resp"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, ok, err := rpcStore.Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", key, ok, value)
			return nil
		},
	}
	expireCmd = &cobra.Command{
		Use:   "expire [key] [marker]",
		Short: "Stores an expiry marker for an existing key",
		Long:  "Stores an expiry marker for an existing key. The marker is kept as given and never evaluated, the key does not expire.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Expire(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
	ttlCmd = &cobra.Command{
		Use:   "ttl [key]",
		Short: "Reads the expiry marker of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			marker, ok, err := rpcStore.TTL(key)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, marker=%s\n", key, ok, marker)
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [pattern]",
		Short: "Lists the keys of the selected database matching a pattern",
		Long:  "Lists the keys of the selected database matching a pattern. '*' matches any sequence, every other character is a regular expression. The server may truncate long results.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, _, err := rpcStore.Keys(args[0])
			if err != nil {
				return err
			}
			for i, k := range keys {
				fmt.Printf("%d) %s\n", i+1, k)
			}
			if len(keys) == 0 {
				fmt.Println("(empty array)")
			}
			return nil
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Writes a snapshot of all databases on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.Save(context.Background()); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
	selectCmd = &cobra.Command{
		Use:   "select [index]",
		Short: "Selects the database used by all following commands",
		Long:  "Selects the database used by all following commands. The selection is kept by the server, later connections use it too.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			if err := rpcStore.Select(index); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
	rawCmd = &cobra.Command{
		Use:   "raw [command] [args...]",
		Short: "Sends a command as is and prints the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := rpcStore.Do(args...)
			if err != nil {
				return err
			}
			fmt.Println(formatValue(v, ""))
			return nil
		},
	}
)

// formatValue renders a reply the way redis-cli does
func formatValue(v resp.Value, indent string) string {
	switch v.Type() {
	case resp.Error:
		return fmt.Sprintf("(error) %s", v.Error())
	case resp.Integer:
		return fmt.Sprintf("(integer) %d", v.Integer())
	case resp.SimpleString:
		return v.String()
	case resp.BulkString:
		if v.IsNull() {
			return "(nil)"
		}
		return strconv.Quote(v.String())
	case resp.Array:
		if v.IsNull() {
			return "(nil)"
		}
		items := v.Array()
		if len(items) == 0 {
			return "(empty array)"
		}
		var sb strings.Builder
		for i, item := range items {
			if i > 0 {
				sb.WriteString("\n" + indent)
			}
			sb.WriteString(fmt.Sprintf("%d) %s", i+1, formatValue(item, indent+"   ")))
		}
		return sb.String()
	default:
		return v.String()
	}
}
