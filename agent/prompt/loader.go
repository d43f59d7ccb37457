package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chatfood/agent/contract"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/router_input.txt
	routerInputRaw string

	//go:embed template/recommender.txt
	recommenderRaw string

	//go:embed template/order_manager.txt
	orderManagerRaw string

	//go:embed template/food_search.txt
	foodSearchRaw string

	//go:embed template/filter.txt
	filterRaw string

	//go:embed template/cart.txt
	cartRaw string

	//go:embed template/information.txt
	informationRaw string
)

// PromptSet holds loaded prompt content. Router, RouterInput and Recommender
// are FString templates; agent prompts are used verbatim.
type PromptSet struct {
	Router      string
	RouterInput string
	Recommender string
	Agents      map[contractx.AgentName]string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:      strings.TrimSpace(routerRaw),
		RouterInput: strings.TrimSpace(routerInputRaw),
		Recommender: strings.TrimSpace(recommenderRaw),
		Agents: map[contractx.AgentName]string{
			contractx.AgentOrderManager: strings.TrimSpace(orderManagerRaw),
			contractx.AgentFoodSearch:   strings.TrimSpace(foodSearchRaw),
			contractx.AgentFilter:       strings.TrimSpace(filterRaw),
			contractx.AgentCart:         strings.TrimSpace(cartRaw),
			contractx.AgentInformation:  strings.TrimSpace(informationRaw),
		},
	}
}

// Agent returns the system prompt for name or ErrPromptMissing.
func (p PromptSet) Agent(name contractx.AgentName) (string, error) {
	v := strings.TrimSpace(p.Agents[name])
	if v == "" {
		return "", fmt.Errorf("%w: agent=%s", contractx.ErrPromptMissing, name)
	}
	return v, nil
}
