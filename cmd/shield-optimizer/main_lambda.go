//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"shield-optimizer/internal/gamedata"
	"shield-optimizer/internal/scenario"
	"shield-optimizer/internal/search"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeRequest struct {
	Vehicle      string       `json:"vehicle"`
	Scenario     string       `json:"scenario,omitempty"`
	Class        int          `json:"class,omitempty"`
	Boosters     *int         `json:"boosters,omitempty"`
	Prelim       int          `json:"prelim,omitempty"`
	HeavyAllowed *bool        `json:"heavyAllowed,omitempty"`
	ShortList    *bool        `json:"shortList,omitempty"`
	Damage       *damageInput `json:"damage,omitempty"`
}

type damageInput struct {
	Explosive     float64 `json:"explosive"`
	Kinetic       float64 `json:"kinetic"`
	Thermal       float64 `json:"thermal"`
	Absolute      float64 `json:"absolute"`
	Effectiveness float64 `json:"effectiveness"`
	CellBank      float64 `json:"cellBank"`
	Reinforcement float64 `json:"reinforcement"`
}

type optimizeResult struct {
	Vehicle      string   `json:"vehicle"`
	Generator    string   `json:"generator"`
	Blueprint    string   `json:"blueprint"`
	Experimental string   `json:"experimental"`
	Boosters     []string `json:"boosters"`
	Survival     float64  `json:"survival"`
	NetDPS       float64  `json:"netDps"`
	Hitpoints    float64  `json:"hitpoints"`
	Forever      bool     `json:"survivesIndefinitely"`
	TimeMs       int64    `json:"timeMs"`
	Detail       string   `json:"detail"`
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req optimizeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if req.Vehicle == "" {
		return errResp(400, "missing vehicle field")
	}
	if req.Scenario == "" && req.Damage == nil {
		return errResp(400, "need a scenario name or an explicit damage profile")
	}

	catalog, err := gamedata.Load(gamedata.Embedded)
	if err != nil {
		return errResp(500, err.Error())
	}

	searchReq, err := catalog.NewRequest(req.Vehicle)
	if err != nil {
		return errResp(404, err.Error())
	}

	vehicle := searchReq.Vehicle
	if req.HeavyAllowed != nil {
		searchReq.HeavyAllowed = *req.HeavyAllowed
	}
	shortList := true
	if req.ShortList != nil {
		shortList = *req.ShortList
	}
	if req.Class != 0 || !searchReq.HeavyAllowed {
		searchReq.Loadouts = catalog.LoadoutsForClass(vehicle, req.Class, searchReq.HeavyAllowed)
	}
	if !shortList {
		searchReq.Boosters = catalog.Boosters(false)
	}
	if req.Boosters != nil {
		searchReq.BoosterCount = *req.Boosters
	}

	if req.Damage != nil {
		searchReq.Damage = search.DamageProfile{
			Explosive:     req.Damage.Explosive,
			Kinetic:       req.Damage.Kinetic,
			Thermal:       req.Damage.Thermal,
			Absolute:      req.Damage.Absolute,
			Effectiveness: req.Damage.Effectiveness,
			CellBank:      req.Damage.CellBank,
			Reinforcement: req.Damage.Reinforcement,
		}
	} else {
		presets, err := scenario.Default()
		if err != nil {
			return errResp(500, err.Error())
		}
		preset, err := presets.Get(req.Scenario)
		if err != nil {
			return errResp(404, fmt.Sprintf("scenario %q not found", req.Scenario))
		}
		searchReq.Damage = preset.Damage()
	}

	opts := search.DefaultOptions()
	opts.Prelim = req.Prelim

	start := time.Now()
	result, err := search.Search(ctx, searchReq, opts)
	if err != nil {
		return errResp(500, err.Error())
	}

	winner := result.Loadout
	resp := optimizeResult{
		Vehicle:      vehicle.Name,
		Generator:    winner.Generator.Name,
		Blueprint:    winner.Generator.Blueprint,
		Experimental: winner.Generator.Experimental,
		Survival:     result.Survival,
		NetDPS:       result.NetDPS,
		Hitpoints:    result.Hitpoints,
		Forever:      result.Forever,
		TimeMs:       time.Since(start).Milliseconds(),
		Detail:       searchReq.OutputString() + "\n" + result.OutputString(searchReq.Damage.Reinforcement),
	}
	for _, b := range winner.Boosters {
		resp.Boosters = append(resp.Boosters, b.String())
	}

	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
