package dnacard

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, yaml/yml and markdown/md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or markdown)", s)
}

// Render writes card to w in the given format.
func Render(w io.Writer, card Card, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(card)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(card); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		return renderMarkdown(w, card)
	}
	return fmt.Errorf("unknown format %q", format)
}

func renderMarkdown(w io.Writer, card Card) error {
	md := markdown.NewMarkdown(w)

	md.H1("アニメDNAカード")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"項目", "値"},
		Rows: [][]string{
			{"オタクタイプ", "**" + card.OtakuType + "**"},
			{"視聴本数", strconv.Itoa(card.Stats.Total)},
			{"平均評価", strconv.FormatFloat(card.Stats.AverageRating, 'f', 1, 64)},
			{"再視聴回数", strconv.Itoa(card.Stats.RewatchTotal)},
			{"推しキャラ", strconv.Itoa(card.FavoriteCharacters)},
			{"お気に入り曲", strconv.Itoa(card.FavoriteSongs)},
		},
	})
	md.PlainText("")

	md.H2("ベストアニメ")
	md.PlainText("")
	if len(card.TopAnime) == 0 {
		md.PlainText("評価済みのアニメはまだありません。")
	} else {
		rows := make([][]string, len(card.TopAnime))
		for i, e := range card.TopAnime {
			rows[i] = []string{strconv.Itoa(i + 1), e.Title, strings.Repeat("★", e.Rating), e.Season}
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "タイトル", "評価", "シーズン"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	if len(card.Stats.TopTags) > 0 {
		md.H2("好きなタグ")
		md.PlainText("")
		md.BulletList(card.FavoriteTags...)
		md.PlainText("")

		chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("タグ分布"), piechart.WithShowData(true))
		for _, t := range card.Stats.TopTags {
			chart.LabelAndIntValue(t.Tag, uint64(t.Count))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainTextf("*%s generated by AnimeLog*", card.GeneratedAt.Format("2006-01-02"))
	return md.Build()
}
