package estimate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// SystemPrompt is sent with every estimator call.
const SystemPrompt = `You are an expert liquidation merchandise analyst.
You value wholesale and returned retail goods for resale on secondary markets.
Always respond with a single JSON object and nothing else.`

const categorizeTmpl = `Categorize this liquidation item.

Item: {{.Description}}

Choose exactly one category from: {{.Categories}}

Respond with JSON:
{"category": string, "subcategory": string, "confidence": float between 0 and 1}`

const brandModelTmpl = `Identify the brand and model of this {{.Category}} item.

Item: {{.Description}}

If either cannot be determined, use an empty string.

Respond with JSON:
{"brand": string, "model": string}`

const valuateTmpl = `Estimate the current secondary-market resale value of one unit of this item.

Item: {{.Description}}
Category: {{.Category}}
Brand: {{or .Brand "unknown"}}
Model: {{or .Model "unknown"}}
Condition: {{.Condition}}

Respond with JSON:
{
  "estimated_value": number (USD per unit),
  "market_value_low": number,
  "market_value_high": number,
  "market_score": integer 0-100,
  "demand_score": integer 0-100,
  "seasonality_factor": number between 0.5 and 1.5
}`

const riskTmpl = `Assess the resale risk of this liquidation item.

Item: {{.Description}}
Category: {{.Category}}
Brand: {{or .Brand "unknown"}}
Model: {{or .Model "unknown"}}
Estimated value: ${{printf "%.2f" .EstimatedValue}}

Consider counterfeit likelihood, return and damage rates, and price volatility.

Respond with JSON:
{"risk_score": integer 0-100, "authenticity_score": integer 0-100, "risk_factors": [string]}`

var (
	categorizeTemplate = template.Must(template.New("categorize").Parse(categorizeTmpl))
	brandModelTemplate = template.Must(template.New("brand_model").Parse(brandModelTmpl))
	valuateTemplate    = template.Must(template.New("valuate").Parse(valuateTmpl))
	riskTemplate       = template.Must(template.New("risk").Parse(riskTmpl))
)

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderCategorizePrompt renders the categorization prompt.
func RenderCategorizePrompt(description string) (string, error) {
	return render(categorizeTemplate, struct {
		Description string
		Categories  string
	}{description, categoryList()})
}

// RenderBrandModelPrompt renders the brand/model prompt.
func RenderBrandModelPrompt(description string, category domain.Category) (string, error) {
	return render(brandModelTemplate, struct {
		Description string
		Category    domain.Category
	}{description, category})
}

// RenderValuatePrompt renders the valuation prompt.
func RenderValuatePrompt(in ValuationInput) (string, error) {
	return render(valuateTemplate, in)
}

// RenderRiskPrompt renders the risk prompt.
func RenderRiskPrompt(in RiskInput) (string, error) {
	return render(riskTemplate, in)
}
