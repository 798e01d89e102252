package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/bellavista/concierge/agent/contract"
	nodex "github.com/bellavista/concierge/agent/nodes"
)

// compileTurnGraph wires one turn: classify, route to exactly one handler,
// persist, log, reply. The dispatch is a closed branch over the intent
// enum; there are no handler-to-handler edges and no loops.
func (o *Orchestrator) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_state",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadOrCreateState(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_state: %w", err)
	}

	if err := graph.AddLambdaNode("extract_entities",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExtractEntities(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract_entities: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("handle_booking",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleBooking(ctx, in, o.finalizer)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_booking: %w", err)
	}

	if err := graph.AddLambdaNode("provide_info",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ProvideInfo(in, o.facts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node provide_info: %w", err)
	}

	if err := graph.AddLambdaNode("handle_menu",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleMenu(ctx, in, o.retriever, o.completer, o.prompts, o.facts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_menu: %w", err)
	}

	if err := graph.AddLambdaNode("general_chat",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GeneralChat(ctx, in, o.completer, o.facts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node general_chat: %w", err)
	}

	if err := graph.AddLambdaNode("record_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_turn: %w", err)
	}

	if err := graph.AddLambdaNode("save_state",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveState(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_state: %w", err)
	}

	if err := graph.AddLambdaNode("log_conversation",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LogConversation(ctx, in, o.convlog)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node log_conversation: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			switch in.Intent {
			case contractx.IntentBooking:
				return "handle_booking", nil
			case contractx.IntentMenuInquiry:
				return "handle_menu", nil
			case contractx.IntentHoursInquiry, contractx.IntentLocationInquiry:
				return "provide_info", nil
			case contractx.IntentGeneralChat:
				return "general_chat", nil
			default:
				return "", fmt.Errorf("%w: unknown intent=%q", contractx.ErrValidation, in.Intent)
			}
		},
		map[string]bool{
			"handle_booking": true,
			"handle_menu":    true,
			"provide_info":   true,
			"general_chat":   true,
		},
	)
	if err := graph.AddBranch("classify_intent", branch); err != nil {
		return nil, fmt.Errorf("add intent branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_state"},
		{"load_or_create_state", "extract_entities"},
		{"extract_entities", "classify_intent"},
		{"handle_booking", "record_turn"},
		{"handle_menu", "record_turn"},
		{"provide_info", "record_turn"},
		{"general_chat", "record_turn"},
		{"record_turn", "save_state"},
		{"save_state", "log_conversation"},
		{"log_conversation", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}
