package steps

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	calculationQueries "github.com/andrescamacho/idleprofit-go/internal/application/calculation/queries"
	favoriteCommands "github.com/andrescamacho/idleprofit-go/internal/application/favorites/commands"
	favoriteQueries "github.com/andrescamacho/idleprofit-go/internal/application/favorites/queries"
	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

func registerFavoriteSteps(sc *godog.ScenarioContext, ac *applicationContext) {
	sc.Step(`^I add the calculation "([^"]*)" of "([^"]*)" as a favorite$`, ac.iAddTheCalculationAsAFavorite)
	sc.Step(`^I add the workflow "([^"]*)" as a favorite$`, ac.iAddTheWorkflowAsAFavorite)
	sc.Step(`^I list the favorites$`, ac.iListTheFavorites)
	sc.Step(`^I delete the first favorite$`, ac.iDeleteTheFirstFavorite)
	sc.Step(`^there should be (\d+) favorites?$`, ac.thereShouldBeFavorites)
	sc.Step(`^favorite (\d+) should be available$`, ac.favoriteShouldBeAvailable)
	sc.Step(`^favorite (\d+) should be a workflow of (\d+) stages$`, ac.favoriteShouldBeAWorkflowOf)
}

func (ac *applicationContext) addFavorite(item calculator.StorageItem) {
	response, err := ac.mediator.Send(ac.ctx, &favoriteCommands.AddFavoriteCommand{Item: item})
	ac.err = err
	if err == nil {
		ac.favoriteIDs = append(ac.favoriteIDs, response.(*favoriteCommands.AddFavoriteResponse).ID)
	}
}

func (ac *applicationContext) iAddTheCalculationAsAFavorite(kind, item string) error {
	calculation, err := ac.calculate(kind, item)
	if err != nil {
		return fmt.Errorf("calculation failed: %w", err)
	}
	ac.addFavorite(calculation.Storage)
	return nil
}

// iAddTheWorkflowAsAFavorite takes stages written as "kind:item then kind:item"
func (ac *applicationContext) iAddTheWorkflowAsAFavorite(chain string) error {
	var stages []calculator.Config
	for _, stage := range strings.Split(chain, " then ") {
		kind, item, ok := strings.Cut(strings.TrimSpace(stage), ":")
		if !ok {
			return fmt.Errorf("invalid stage %q", stage)
		}
		stages = append(stages, calculator.Config{
			Kind:        calculator.Kind(kind),
			Hrid:        itemHrid(item),
			EscapeLevel: calculator.NoEscape,
		})
	}

	response, err := ac.mediator.Send(ac.ctx, &calculationQueries.WorkflowQuery{Stages: stages})
	if err != nil {
		return fmt.Errorf("workflow failed: %w", err)
	}
	ac.addFavorite(response.(*calculationQueries.WorkflowResponse).Storage)
	return nil
}

func (ac *applicationContext) iListTheFavorites() error {
	response, err := ac.mediator.Send(ac.ctx, &favoriteQueries.ListFavoritesQuery{})
	if err != nil {
		return err
	}
	ac.favorites = response.(*favoriteQueries.ListFavoritesResponse).Favorites
	return nil
}

func (ac *applicationContext) iDeleteTheFirstFavorite() error {
	if err := ac.iListTheFavorites(); err != nil {
		return err
	}
	if len(ac.favorites) == 0 {
		return fmt.Errorf("no favorites to delete")
	}
	_, ac.err = ac.mediator.Send(ac.ctx, &favoriteCommands.DeleteFavoriteCommand{ID: ac.favorites[0].ID})
	return nil
}

func (ac *applicationContext) thereShouldBeFavorites(count int) error {
	if err := ac.iListTheFavorites(); err != nil {
		return err
	}
	if len(ac.favorites) != count {
		return fmt.Errorf("expected %d favorites, got %d", count, len(ac.favorites))
	}
	return nil
}

func (ac *applicationContext) favorite(n int) (favoriteQueries.FavoriteRow, error) {
	if n < 1 || n > len(ac.favorites) {
		return favoriteQueries.FavoriteRow{}, fmt.Errorf("favorite %d not listed (%d favorites)", n, len(ac.favorites))
	}
	return ac.favorites[n-1], nil
}

func (ac *applicationContext) favoriteShouldBeAvailable(n int) error {
	row, err := ac.favorite(n)
	if err != nil {
		return err
	}
	if row.Error != "" {
		return fmt.Errorf("favorite %d failed to rebuild: %s", n, row.Error)
	}
	if !row.Result.Available {
		return fmt.Errorf("expected favorite %d (%s) to be available", n, row.Result.Hrid)
	}
	return nil
}

func (ac *applicationContext) favoriteShouldBeAWorkflowOf(n, stages int) error {
	row, err := ac.favorite(n)
	if err != nil {
		return err
	}
	if got := len(row.Storage.Stages); got != stages {
		return fmt.Errorf("expected favorite %d to have %d stages, got %d", n, stages, got)
	}
	return nil
}
