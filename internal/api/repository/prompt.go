package repository

import (
	"fmt"
	"strings"

	"stock-research-api/internal/api/dto"
)

// BuildStockAnalysisPrompt renders the investment-commentary prompt from the
// gathered company, quote and news data.
func BuildStockAnalysisPrompt(company *dto.CompanyInfo, stock *dto.StockData, news []dto.NewsItem) string {
	var newsBlock strings.Builder
	for i, n := range news {
		if i >= 5 {
			break
		}
		newsBlock.WriteString(fmt.Sprintf("- %s (%s, %s)\n", firstNonEmpty(n.Title, n.Snippet), n.Source, n.Date))
	}

	return fmt.Sprintf(`あなたは株式アナリストです。以下の企業データをもとに投資分析を行い、JSON形式で出力してください。

企業情報:
- 企業名: %s
- ティッカー: %s
- 市場: %s
- 概要: %s

株価データ:
- 現在値: %.2f
- 前日比: %.2f (%.2f%%)
- 出来高: %.0f
- 時価総額: %.0f
- PER: %.2f / EPS: %.2f
- 52週高値: %.2f / 52週安値: %.2f

最近のニュース:
%s

評価基準:
- recommendation: "buy"、"hold"、"sell" のいずれか
- riskLevel: "low"、"medium"、"high" のいずれか
- score: 1.0（弱い）から5.0（強い）までの総合評価
- strengths / weaknesses / opportunities / threats: SWOT分析の各項目（配列）

出力は以下のJSON構造のみで、他のテキストは含めないでください:
{
  "summary": "業績は堅調で...",
  "recommendation": "hold",
  "riskLevel": "medium",
  "score": 3.5,
  "strengths": ["強固なブランド力"],
  "weaknesses": ["為替依存度が高い"],
  "opportunities": ["新興国市場の拡大"],
  "threats": ["競争激化"]
}
`,
		company.Name, company.Symbol, company.Market, company.Description,
		stock.Price, stock.Change, stock.ChangePercent, stock.Volume,
		stock.MarketCap, stock.PE, stock.EPS, stock.High52, stock.Low52,
		newsBlock.String())
}

// BuildFinancialEvaluationPrompt renders the financial-health evaluation prompt.
func BuildFinancialEvaluationPrompt(symbol, companyName string, data *dto.FinancialData) string {
	var figures strings.Builder
	if data != nil {
		writeFigure(&figures, "売上高", data.Revenue)
		writeFigure(&figures, "純利益", data.NetIncome)
		writeFigure(&figures, "営業利益", data.OperatingIncome)
		writeFigure(&figures, "総資産", data.TotalAssets)
		writeFigure(&figures, "現金", data.Cash)
		writeFigure(&figures, "EPS", data.EPS)
		if data.Period != "" {
			figures.WriteString(fmt.Sprintf("- 期間: %s\n", data.Period))
		}
	}
	if figures.Len() == 0 {
		figures.WriteString("- 財務データなし（公開情報から推定してください）\n")
	}

	return fmt.Sprintf(`あなたは財務アナリストです。%s (%s) の財務状況を評価し、JSON形式で出力してください。

財務データ:
%s

評価基準: 各スコアは1.0（弱い）から5.0（強い）までの数値。

出力は以下のJSON構造のみで、他のテキストは含めないでください:
{
  "summary": "収益性は高いが...",
  "profitability": 4.0,
  "stability": 3.5,
  "growth": 3.0,
  "overall": 3.5,
  "comments": ["営業利益率が改善傾向"]
}
`, companyName, symbol, figures.String())
}

// BuildNewsAnalysisPrompt renders the news-impact assessment prompt.
func BuildNewsAnalysisPrompt(symbol, companyName string, news []dto.NewsItem, articleContents []string) string {
	var newsBlock strings.Builder
	for i, n := range news {
		if i >= 10 {
			break
		}
		newsBlock.WriteString(fmt.Sprintf("- %s (%s, %s)\n", firstNonEmpty(n.Title, n.Snippet), n.Source, n.Date))
	}

	var articleBlock strings.Builder
	for i, content := range articleContents {
		if content == "" {
			continue
		}
		articleBlock.WriteString(fmt.Sprintf("記事%d: %s\n", i+1, truncateRunes(content, 2000)))
	}

	return fmt.Sprintf(`あなたは株式アナリストです。%s (%s) に関する最近のニュースが株価に与える影響を分析し、JSON形式で出力してください。

ニュース一覧:
%s
%s
評価基準:
- sentiment: "positive"、"neutral"、"negative" のいずれか
- impactScore: -100（非常にネガティブ）から 100（非常にポジティブ）までの数値
- keyTopics: 重要トピックの配列（「決算」「新製品」など）

出力は以下のJSON構造のみで、他のテキストは含めないでください:
{
  "summary": "好決算を受けて...",
  "sentiment": "positive",
  "impactScore": 45,
  "keyTopics": ["決算", "増配"]
}
`, companyName, symbol, newsBlock.String(), articleBlock.String())
}

func writeFigure(b *strings.Builder, label string, v *float64) {
	if v == nil {
		return
	}
	b.WriteString(fmt.Sprintf("- %s: %.0f\n", label, *v))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
