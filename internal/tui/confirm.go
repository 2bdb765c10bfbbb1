package tui

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	content := "Importar \"" + m.message + "\"?\n"
	content += "As coleções presentes no backup serão substituídas.\n\n"
	content += "y sim    n não"
	return overlayBoxStyle.Render(content)
}
