package rpc

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin"
	"github.com/lidofinance/btc-gateway/internal/pkg/bitcoin/entity"
)

// Register mounts one route per node method. Path parameters carry the
// main argument, the rest comes from the query string using the node's
// own argument names.
func (h *handler) Register(r chi.Router) {
	n := h.node

	// Node and network
	r.Get("/getconnectioncount", h.serve(noArgs(n.GetConnectionCount)))
	r.Get("/connectioncount", h.serve(noArgs(n.GetConnectionCount)))
	r.Get("/getpeerinfo", h.serve(noArgs(n.GetPeerInfo)))
	r.Get("/getnetworkinfo", h.serve(noArgs(n.GetNetworkInfo)))
	r.Get("/getnettotals", h.serve(noArgs(n.GetNetTotals)))
	r.Get("/getnodeaddresses", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		count, network := p.optInt("count"), p.optString("network")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetNodeAddresses(r.Context(), count, network)
	}))
	r.Get("/getaddednodeinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetAddedNodeInfo(r.Context(), newParams(r).optString("node"))
	}))
	r.Get("/listbanned", h.serve(noArgs(n.ListBanned)))
	r.Get("/uptime", h.serve(noArgs(n.Uptime)))
	r.Get("/getmemoryinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetMemoryInfo(r.Context(), newParams(r).optString("mode"))
	}))
	r.Get("/getrpcinfo", h.serve(noArgs(n.GetRPCInfo)))
	r.Get("/getindexinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetIndexInfo(r.Context(), newParams(r).optString("index_name"))
	}))
	r.Get("/getzmqnotifications", h.serve(noArgs(n.GetZmqNotifications)))
	r.Get("/ping", h.serve(noArgs(n.Ping)))
	r.Post("/ping", h.serve(noArgs(n.Ping)))

	// Blockchain and mining
	r.Get("/getmininginfo", h.serve(noArgs(n.GetMiningInfo)))
	r.Get("/getblockchaininfo", h.serve(noArgs(n.GetBlockchainInfo)))
	r.Get("/getdifficulty", h.serve(noArgs(n.GetDifficulty)))
	r.Get("/getbestblockhash", h.serve(noArgs(n.GetBestBlockHash)))
	r.Get("/getblockcount", h.serve(noArgs(n.GetBlockCount)))
	r.Get("/getblockhash/{height}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		height := p.pathInt64("height")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetBlockHash(r.Context(), height)
	}))
	r.Get("/getblockheader/{blockhash}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		blockHash, verbose := p.pathString("blockhash"), p.boolOr("verbose", true)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetBlockHeader(r.Context(), blockHash, verbose)
	}))
	r.Get("/getblock/{blockhash}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		blockHash, verbosity := p.pathString("blockhash"), p.intOr("verbosity", bitcoin.DefaultBlockVerbosity)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetBlock(r.Context(), blockHash, verbosity)
	}))
	r.Get("/getblockstats/{hash_or_height}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		hashOrHeight, stats := p.pathString("hash_or_height"), p.stringList("stats")
		if height, err := strconv.ParseInt(hashOrHeight, 10, 64); err == nil {
			return n.GetBlockStats(r.Context(), height, stats)
		}
		return n.GetBlockStatsByHash(r.Context(), hashOrHeight, stats)
	}))
	r.Get("/getblockfilter/{blockhash}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		return n.GetBlockFilter(r.Context(), p.pathString("blockhash"), p.optString("filtertype"))
	}))
	r.Get("/getchaintips", h.serve(noArgs(n.GetChainTips)))
	r.Get("/getchaintxstats", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		nblocks, blockHash := p.optInt("nblocks"), p.optString("blockhash")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetChainTxStats(r.Context(), nblocks, blockHash)
	}))
	r.Get("/getdeploymentinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetDeploymentInfo(r.Context(), newParams(r).optString("blockhash"))
	}))
	r.Get("/getnetworkhashps", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		nblocks, height := p.optInt("nblocks"), p.optInt64("height")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetNetworkHashPS(r.Context(), nblocks, height)
	}))
	r.Get("/gettxout", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		txid, vout, includeMempool := p.requiredString("txid"), p.requiredInt("n"), p.boolOr("include_mempool", true)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetTxOut(r.Context(), txid, vout, includeMempool)
	}))
	r.Get("/gettxoutproof", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		return n.GetTxOutProof(r.Context(), p.stringList("txids"), p.optString("blockhash"))
	}))
	r.Get("/verifytxoutproof/{proof}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.VerifyTxOutProof(r.Context(), newParams(r).pathString("proof"))
	}))
	r.Get("/gettxoutsetinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetTxOutSetInfo(r.Context(), newParams(r).optString("hash_type"))
	}))
	r.Get("/getrawtransaction/{txid}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		txid, verbose, blockHash := p.pathString("txid"), p.boolOr("verbose", false), p.optString("blockhash")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetRawTransaction(r.Context(), txid, verbose, blockHash)
	}))
	r.Get("/getaddressinfo/{address}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetAddressInfo(r.Context(), newParams(r).pathString("address"))
	}))
	r.Get("/verifychain", h.serve(h.verifyChain))

	// Utilities
	r.Get("/validateaddress/{address}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.ValidateAddress(r.Context(), newParams(r).pathString("address"))
	}))
	r.Get("/verifymessage", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		address, signature, message := p.requiredString("address"), p.requiredString("signature"), p.requiredString("message")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.VerifyMessage(r.Context(), address, signature, message)
	}))
	// The key travels in the body, the access log prints the request URI.
	r.Post("/signmessagewithprivkey", h.serve(func(r *http.Request) (*entity.Reply, error) {
		var body struct {
			PrivKey string `json:"privkey"`
			Message string `json:"message"`
		}
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		if body.PrivKey == "" {
			return nil, &ParamError{Name: "privkey", Reason: "is required"}
		}
		return n.SignMessageWithPrivKey(r.Context(), body.PrivKey, body.Message)
	}))
	r.Get("/decodescript/{hexstring}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.DecodeScript(r.Context(), newParams(r).pathString("hexstring"))
	}))
	r.Get("/decoderawtransaction/{hexstring}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		hexString, isWitness := p.pathString("hexstring"), p.optBool("iswitness")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.DecodeRawTransaction(r.Context(), hexString, isWitness)
	}))
	r.Get("/estimatesmartfee/{conf_target}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		confTarget, mode := p.pathInt("conf_target"), p.optString("estimate_mode")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.EstimateSmartFee(r.Context(), confTarget, mode)
	}))
	r.Get("/getdescriptorinfo", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		descriptor := p.requiredString("descriptor")
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetDescriptorInfo(r.Context(), descriptor)
	}))
	r.Get("/deriveaddresses", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		descriptor, derivationRange := p.requiredString("descriptor"), p.intList("range")
		if len(derivationRange) > 2 {
			p.fail("range", p.query.Get("range"), "takes an end index or a begin,end pair")
		}
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.DeriveAddresses(r.Context(), descriptor, derivationRange)
	}))

	// Memory pool
	r.Get("/getmempoolinfo", h.serve(noArgs(n.GetMempoolInfo)))
	r.Get("/getrawmempool", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		verbose := p.boolOr("verbose", false)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetRawMempool(r.Context(), verbose)
	}))
	r.Get("/getmempoolentry/{txid}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		return n.GetMempoolEntry(r.Context(), newParams(r).pathString("txid"))
	}))
	r.Get("/getmempoolancestors/{txid}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		txid, verbose := p.pathString("txid"), p.boolOr("verbose", false)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetMempoolAncestors(r.Context(), txid, verbose)
	}))
	r.Get("/getmempooldescendants/{txid}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		txid, verbose := p.pathString("txid"), p.boolOr("verbose", false)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetMempoolDescendants(r.Context(), txid, verbose)
	}))
	r.Post("/testmempoolaccept", h.serve(func(r *http.Request) (*entity.Reply, error) {
		var body struct {
			RawTxs     []string `json:"rawtxs"`
			MaxFeeRate *float64 `json:"maxfeerate"`
		}
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		return n.TestMempoolAccept(r.Context(), body.RawTxs, body.MaxFeeRate)
	}))
	r.Post("/sendrawtransaction", h.serve(func(r *http.Request) (*entity.Reply, error) {
		var body struct {
			HexString  string   `json:"hexstring"`
			MaxFeeRate *float64 `json:"maxfeerate"`
		}
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		return n.SendRawTransaction(r.Context(), body.HexString, body.MaxFeeRate)
	}))

	// Wallet
	r.Get("/getwalletinfo", h.serve(noArgs(n.GetWalletInfo)))
	r.Get("/getbalance", h.serve(noArgs(n.GetBalance)))
	r.Get("/getbalances", h.serve(noArgs(n.GetBalances)))
	r.Get("/listwallets", h.serve(noArgs(n.ListWallets)))

	// Derived
	r.Get("/getblockchainsize", h.serve(noArgs(n.GetBlockchainSize)))
	r.Get("/getblockinfo/{height}", h.serve(func(r *http.Request) (*entity.Reply, error) {
		p := newParams(r)
		height, verbosity := p.pathInt64("height"), p.intOr("verbosity", bitcoin.DefaultBlockInfoVerbosity)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return n.GetBlockInfo(r.Context(), height, verbosity)
	}))

	// External
	r.Get("/getsatoshis/{address}", h.getSatoshis)
}

func noArgs(fn func(ctx context.Context) (*entity.Reply, error)) endpoint {
	return func(r *http.Request) (*entity.Reply, error) {
		return fn(r.Context())
	}
}

// verifyChain is the only endpoint with local policy: nblocks is clamped
// so a request cannot make the node verify the whole chain.
func (h *handler) verifyChain(r *http.Request) (*entity.Reply, error) {
	p := newParams(r)
	checkLevel, nblocks := p.optInt("checklevel"), p.intOr("nblocks", DefaultVerifyBlocks)
	if err := p.Err(); err != nil {
		return nil, err
	}

	if clamped, changed := ClampBlockCount(nblocks); changed {
		h.log.Warn("verifychain nblocks out of range, clamped",
			slog.Int("requested", nblocks),
			slog.Int("nblocks", clamped),
		)
		nblocks = clamped
	}

	return h.node.VerifyChain(r.Context(), checkLevel, &nblocks)
}

func (h *handler) getSatoshis(w http.ResponseWriter, r *http.Request) {
	satoshis, err := h.balance.GetSatoshis(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, int64(satoshis))
}
