package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellblend/pkg/config"
)

// Initial board size before the first window size message arrives.
const (
	defaultBoardCols = 40
	defaultBoardRows = 20
)

// playCommand creates the interactive terminal game.
func (c *CLI) playCommand() *cobra.Command {
	var flags diagramFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal. Move the cursor with the arrow keys and press enter
to click the cell under it. Press r for a new board, c to redraw every
color from the palette, and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), cfg)
		},
	}
	addDiagramFlags(cmd, &flags)
	return cmd
}

func (c *CLI) runPlay(ctx context.Context, cfg config.Config) error {
	g, err := c.newGame(cfg)
	if err != nil {
		return err
	}

	// Log lines would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.ErrorLevel)
	defer c.Logger.SetLevel(level)

	model := NewBoardModel(ctx, g.store, g.ctrl, cfg.Points, defaultBoardCols, defaultBoardRows)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	board := final.(BoardModel)
	printSuccess("Finished with %d cells after %d clicks", board.State().Len(), board.Clicks)
	return nil
}
