package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/mirror"
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Read mirrored state",
		Long: `Read mirrored state. Keys use their stored form, e.g. GUILD:81384788765712384
or MEMBER:81384788765712384:80351110224678912.`,
	}
	inspectGetCmd = &cobra.Command{
		Use:     "get <key>",
		Short:   "Print the value stored at a key as JSON",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(ctx context.Context, cache *mirror.Cache) error {
				return inspectGet(ctx, cmd.OutOrStdout(), cache, args[0])
			})
		},
	}
	inspectMembersCmd = &cobra.Command{
		Use:     "members <set-key>",
		Short:   "Print the ids of a membership set",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(ctx context.Context, cache *mirror.Cache) error {
				return inspectMembers(ctx, cmd.OutOrStdout(), cache, args[0], viper.GetBool("count"))
			})
		},
	}
	inspectMessagesCmd = &cobra.Command{
		Use:     "messages <channel-id>",
		Short:   "Print the cached message ids of a channel, oldest first",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(ctx context.Context, cache *mirror.Cache) error {
				return inspectMessages(ctx, cmd.OutOrStdout(), cache, args[0], viper.GetInt64("start"), viper.GetInt64("stop"))
			})
		},
	}
)

func init() {
	inspectCmd.AddCommand(inspectGetCmd)
	inspectCmd.AddCommand(inspectMembersCmd)
	inspectCmd.AddCommand(inspectMessagesCmd)

	key := "count"
	inspectMembersCmd.Flags().Bool(key, false, WrapString("Print only the cardinality of the set"))
	key = "start"
	inspectMessagesCmd.Flags().Int64(key, 0, WrapString("First list index (negative counts from the newest)"))
	key = "stop"
	inspectMessagesCmd.Flags().Int64(key, -1, WrapString("Last list index, inclusive"))
}

func withCache(cmd *cobra.Command, fn func(context.Context, *mirror.Cache) error) error {
	ctx := cmd.Context()
	cache, closeCache, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeCache() }()
	return fn(ctx, cache)
}

func inspectGet(ctx context.Context, w io.Writer, cache *mirror.Cache, raw string) error {
	k, err := mirror.ParseKey(raw)
	if err != nil {
		return err
	}
	data, err := cache.Get(ctx, k)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s: not found", k)
	}

	codec := cache.Strategy().Codec()
	var out any
	if k.Kind().Owned() {
		owned, err := mirror.OwnedValue[any](codec)(data)
		if err != nil {
			return err
		}
		out = map[string]any{"owner_id": owned.OwnerID, "value": owned.Value}
	} else if err := codec.Decode(data, &out); err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func inspectMembers(ctx context.Context, w io.Writer, cache *mirror.Cache, raw string, count bool) error {
	k, err := mirror.ParseKey(raw)
	if err != nil {
		return err
	}
	if count {
		n, err := cache.MemberCount(ctx, k)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, n)
		return err
	}

	ids, err := cache.Members(ctx, k)
	if err != nil {
		return err
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

func inspectMessages(ctx context.Context, w io.Writer, cache *mirror.Cache, rawID string, start, stop int64) error {
	channelID, err := parseID(rawID)
	if err != nil {
		return err
	}
	ids, err := cache.ListRange(ctx, channelID, start, stop)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
