package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-gabbai/internal/calendar"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/hebdate"
	"github.com/tartampluch/go-gabbai/internal/i18n"
	"github.com/tartampluch/go-gabbai/internal/parasha"
)

// calendarEngine answers both event and weekly reading queries.
type calendarEngine interface {
	calendar.EventSource
	parasha.Source
}

// Replaced in tests.
var (
	engine calendarEngine = calendar.HebcalSource{}
	clock  hebdate.Clock  = hebdate.RealClock{}
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdConvert,
		Short: config.CmdDescConv,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   config.CmdToGreg,
			Short: config.CmdDescToGreg,
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := atoiArgs(args)
				if err != nil {
					return err
				}
				iso, err := hebdate.HebrewToGregorian(n[0], n[1], n[2])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), iso)
				return err
			},
		},
		&cobra.Command{
			Use:   config.CmdToHeb,
			Short: config.CmdDescToHeb,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := hebdate.ParseGregorian(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgConvertHebrew, d, d.Day, d.Month, d.Year)
				return err
			},
		},
	)
	return cmd
}

func newGematriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdGematria,
		Short: config.CmdDescGem,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, a := range args {
				if n, err := strconv.Atoi(a); err == nil {
					_, _ = fmt.Fprintln(out, hebdate.ToGematria(n))
					continue
				}
				n := hebdate.FromGematria(a)
				if n == 0 {
					return fmt.Errorf("%s: %q", config.ErrNotANumber, a)
				}
				_, _ = fmt.Fprintln(out, n)
			}
			return nil
		},
	}
}

func newParashaCmd() *cobra.Command {
	var english, diaspora bool

	cmd := &cobra.Command{
		Use:   config.CmdParasha,
		Short: config.CmdDescPar,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := clock.Now()
			if len(args) == 1 {
				t, err := time.Parse(config.DateFormatISO, args[0])
				if err != nil {
					return fmt.Errorf("%s: %w", config.ErrDateParse, err)
				}
				day = t
			}

			r, err := parasha.NewResolver(engine, diaspora).ForDate(cmd.Context(), day)
			if errors.Is(err, parasha.ErrNoEvent) {
				shabbat := parasha.NextShabbat(day).Format(config.DateFormatISO)
				loc, lerr := localizer(english)
				if lerr != nil {
					return lerr
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), loc.Tmpl(config.TKeyMsgNoParasha, map[string]any{"Date": shabbat}))
				return err
			}
			if err != nil {
				return err
			}
			hd, err := hebdate.FormatGregorian(r.Date)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgMonthRow,
				r.Date.Format(config.DateFormatISO), hd, parasha.Display(r.Name, english))
			return err
		},
	}
	cmd.Flags().BoolVar(&english, config.FlagEnglish, false, config.FlagDescEnglish)
	cmd.Flags().BoolVar(&diaspora, config.FlagDiaspora, false, config.FlagDescDiaspora)
	return cmd
}

func newMonthCmd() *cobra.Command {
	var english, diaspora bool

	cmd := &cobra.Command{
		Use:   config.CmdMonth,
		Short: config.CmdDescMonth,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return cobra.ExactArgs(2)(cmd, args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := hebdate.Today(clock)
			if err != nil {
				return err
			}
			month, year := today.Month, today.Year
			if len(args) == 2 {
				n, err := atoiArgs(args)
				if err != nil {
					return err
				}
				month, year = n[0], n[1]
			}

			days, err := calendar.NewBuilder(engine, clock, diaspora).Month(cmd.Context(), month, year)
			if err != nil {
				return err
			}
			return printMonth(cmd.OutOrStdout(), days, month, year, english)
		},
	}
	cmd.Flags().BoolVar(&english, config.FlagEnglish, false, config.FlagDescEnglish)
	cmd.Flags().BoolVar(&diaspora, config.FlagDiaspora, false, config.FlagDescDiaspora)
	return cmd
}

// printMonth writes one row per day of the month: Hebrew day, civil date,
// then the holidays and the portion of the day.
func printMonth(w io.Writer, days []calendar.Day, month, year int, english bool) error {
	name, label := hebdate.MonthName(month, year), hebdate.YearToGematria(year)
	if english {
		name, label = hebdate.EnglishMonthName(month, year), strconv.Itoa(year)
	}
	if _, err := fmt.Fprintf(w, config.MsgMonthHeader, name, label); err != nil {
		return err
	}

	for _, d := range days {
		if !d.IsCurrentMonth {
			continue
		}
		var notes []string
		switch {
		case english && d.Holiday != "":
			notes = append(notes, d.Holiday)
		case d.HolidayHebrew != "":
			notes = append(notes, d.HolidayHebrew)
		case d.Holiday != "":
			notes = append(notes, d.Holiday)
		}
		if d.Parasha != "" {
			if english {
				notes = append(notes, config.ParashaPrefixEn+d.Parasha)
			} else {
				notes = append(notes, d.ParashaLabel(false))
			}
		}
		if _, err := fmt.Fprintf(w, config.MsgMonthRow,
			hebdate.DayToGematria(d.Hebrew.Day),
			d.Gregorian.Format(config.DateFormatISO),
			strings.Join(notes, config.HolidaySeparator),
		); err != nil {
			return err
		}
	}
	return nil
}

func localizer(english bool) (*i18n.Localizer, error) {
	tr, err := i18n.New()
	if err != nil {
		return nil, err
	}
	if english {
		return tr.Localizer("en"), nil
	}
	return tr.Localizer(config.DefaultLanguage), nil
}

func atoiArgs(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %q", config.ErrNotANumber, a)
		}
		out[i] = n
	}
	return out, nil
}
