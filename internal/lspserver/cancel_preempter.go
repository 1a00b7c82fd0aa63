package lspserver

import (
	"context"
	"encoding/json/jsontext"
	jsonv2 "encoding/json/v2"

	"golang.org/x/exp/jsonrpc2"
)

// cancelPreempter forwards "$/cancelRequest" notifications to the
// connection's own cancellation bookkeeping. golang.org/x/exp/jsonrpc2
// doesn't special-case this LSP method, so it has to be intercepted before
// normal dispatch via a Preempter.
type cancelPreempter struct {
	conn *jsonrpc2.Connection
}

type cancelRequestParams struct {
	ID any `json:"id"`
}

func (p *cancelPreempter) Preempt(_ context.Context, req *jsonrpc2.Request) (any, error) {
	if req.Method != "$/cancelRequest" {
		return nil, jsonrpc2.ErrNotHandled
	}

	var params cancelRequestParams
	if len(req.Params) > 0 {
		if err := jsonv2.Unmarshal(jsontext.Value(req.Params), &params); err != nil {
			return nil, nil //nolint:nilnil // malformed cancellation requests are ignored
		}
	}

	var id jsonrpc2.ID
	switch v := params.ID.(type) {
	case float64:
		id = jsonrpc2.Int64ID(int64(v))
	case string:
		id = jsonrpc2.StringID(v)
	default:
		return nil, nil //nolint:nilnil // no recognizable id, nothing to cancel
	}

	if p.conn != nil {
		p.conn.Cancel(id)
	}
	return nil, nil //nolint:nilnil // notifications have no result
}
