package agent

import (
	"context"
	"fmt"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand their portfolio allocation and the trades
			needed to rebalance it towards their targets, across several accounts.

			Devise a plan of questions to ask to each experts and come up with the best response
			to the user's request.

			The user will assume that you know about their symbols and accounts, check the
			portfolio first to understand what they are. Never invent a figure: every number you
			give comes from an expert's answer.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the market analyst expert. It grounds its answers
// with Google Search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of financial products, funds and companies,
		and of the latest news about them.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert market analyst. You can search and find about anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewStrategist creates the rebalancing expert. Its tools are read-only
// views over the given portfolio, so every figure it quotes comes from
// the engine, not from the model.
func NewStrategist(p *rebalance.Portfolio) *Expert {
	lib := []Function{holdingsTool(p), targetsTool(p), planTool(p)}

	return &Expert{
		Name: "Strategist",
		Description: `This is the Strategist. He is in charge of the user's portfolio:
		accounts, holdings, target allocation, and the rebalancing plans.
		He can compute the allocation plan and the trade list under either strategy.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the strategist in charge of the user's multi-account portfolio.
				You know how to use the Tools to read the current holdings, the target
				allocation, and to compute a rebalancing plan.
				You are part of a team of experts, yours is everything about the user's
				portfolio. They might ask you questions in approximative language,
				figure out what they meant.

				Two strategies exist:
				  - consolidate: concentrates each symbol in as few accounts as possible
				  - min_trades: keeps existing positions and minimizes the number of trades

				Always compute, never guess. When the user asks "what should I trade",
				run the plan tool and report the trades it produced.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func holdingsTool(p *rebalance.Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Holdings",
			Description: `Holdings lists everything currently held, per account, with share counts, prices and amounts.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the current holdings, one table per account, with totals.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Holdings",
				Response: map[string]any{
					"output": renderer.HoldingsMarkdown(p),
				},
			}
		},
	}
}

func targetsTool(p *rebalance.Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Targets",
			Description: `Targets lists the symbols of the rebalance universe with their price and target percentage. Symbols without a target are to be liquidated by a rebalance.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of symbols, prices and target percentages.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Targets",
				Response: map[string]any{
					"output": renderer.TargetsMarkdown(p),
				},
			}
		},
	}
}

func planTool(p *rebalance.Portfolio) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Plan",
			Description: `Plan computes the full rebalancing plan: the target allocation in whole
			shares per account, and the buy and sell trades to get there.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"strategy": {
						Type:        genai.TypeString,
						Description: `The allocation strategy, "consolidate" or "min_trades". Defaults to the portfolio's own setting.`,
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with the target allocation per account followed by the trade list.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fresp := &genai.FunctionResponse{ID: id, Name: "Plan"}

			// Run the plan on a copy so the tool never mutates the session's
			// portfolio strategy.
			run := *p
			if arg, ok := args["strategy"]; ok {
				s, ok := arg.(string)
				if !ok {
					fresp.Response = map[string]any{
						"error": fmt.Sprintf("argument 'strategy' is not a string as expected but %T", arg),
					}
					return fresp
				}
				strategy, err := rebalance.ParseStrategy(s)
				if err != nil {
					fresp.Response = map[string]any{"error": err.Error()}
					return fresp
				}
				run.Strategy = strategy
			}

			target, trades := run.Plan()
			fresp.Response = map[string]any{
				"output": renderer.AllocationMarkdown(&run, target) + "\n" + renderer.TradesMarkdown(trades),
			}
			return fresp
		},
	}
}
