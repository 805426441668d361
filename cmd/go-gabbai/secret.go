package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-gabbai/internal/config"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdSecret,
		Short: config.CmdDescSecret,
	}

	var user string
	set := &cobra.Command{
		Use:   config.CmdSecretSet,
		Short: config.CmdDescSetPwd,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				if err != nil {
					return errors.Join(errors.New(config.ErrPasswordEmpty), err)
				}
				return errors.New(config.ErrPasswordEmpty)
			}
			return config.SetDirectoryPassword(user, password)
		},
	}
	set.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	_ = set.MarkFlagRequired(config.FlagUser)

	cmd.AddCommand(set)
	return cmd
}
