package router

// LoginRoute は未認証時の転送先ルートの名前。
const LoginRoute = "login"

// DefaultRoutes はSmartMealの画面ルート表を返す。
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Redirect: "/login"},

		{Path: "/recipes", Name: "recipes", View: "RecipesView"},
		{Path: "/recipes/:id", Name: "recipe-detail", View: "RecipeDetailView", Props: true},

		{Path: "/add-recipe", Name: "add-recipe", View: "AddRecipeView", RequiresAuth: true},
		{Path: "/dashboard", Name: "Dashboard", View: "DashboardView", RequiresAuth: true},
		{Path: "/recipes/:id/edit", Name: "edit-recipe", View: "EditRecipeView", Props: true, RequiresAuth: true},

		{Path: "/login", Name: LoginRoute, View: "LoginView"},
		{Path: "/register", Name: "register", View: "RegisterView"},

		{Path: "/profile", Name: "profile", View: "ProfileView", RequiresAuth: true},
		{Path: "/ingredients", Name: "ingredients", View: "IngredientsView", RequiresAuth: true},
		{Path: "/meals", Name: "meals", View: "MealsView", RequiresAuth: true},
		{Path: "/meal-plan", Name: "meal-plan", View: "MealPlanView", RequiresAuth: true},
		{Path: "/recommendations", Name: "recommendations", View: "RecommendationView", RequiresAuth: true},
		{Path: "/analytics", Name: "analytics", View: "AnalyticsView", RequiresAuth: true},
	}
}

// Default はDefaultRoutesから構築したルート表を返す。
func Default() *Table {
	return MustTable(DefaultRoutes())
}
