package templates

// Default answers for the known university intents, in French.
var defaultIntentAnswers = map[string]string{
	"inscription": `Pour vous inscrire à l'Université Mohammed V :

📋 **Étapes** :
1. Visitez le portail : www.um5.ac.ma/inscription
2. Préparez vos documents (baccalauréat, relevé de notes)
3. Période d'inscription : Juillet - Septembre

📧 **Contact** : inscription@um5.ac.ma
📞 **Téléphone** : +212 5XX-XX-XX-XX`,

	"bourses": `Informations sur les bourses à l'UM5 :

💰 **Types de bourses** :
- Bourse d'Excellence (≥14/20)
- Bourse Sociale (conditions de ressources)
- Bourse de Recherche (Master/Doctorat)

📅 **Candidature** : Septembre - Octobre
📧 **Contact** : bourses@um5.ac.ma`,

	"emploi_du_temps": `Consultation de l'emploi du temps :

🗓️ **Accès** :
- Portail étudiant : student.um5.ac.ma
- Application mobile UM5
- Affichage dans votre faculté

📱 **Notifications** : Activez les alertes dans l'app`,

	"bibliotheque": `Bibliothèque Universitaire :

📚 **Horaires** :
- Lundi - Vendredi : 8h00 - 18h00
- Samedi : 9h00 - 13h00

🌐 **Ressources en ligne** : bibliotheque.um5.ac.ma
📧 **Contact** : bibliotheque@um5.ac.ma`,
}

const defaultAnswer = `Je suis désolé, je n'ai pas pu trouver d'information précise pour votre question.

📞 **Contacts utiles** :
- Info générale : info@um5.ac.ma
- Standard : +212 5XX-XX-XX-XX

💡 Essayez de reformuler votre question ou contactez directement le service concerné.`

// DefaultTemplates returns the built-in French template set.
func DefaultTemplates() *Templates {
	// The built-in set is statically valid, so the error path is dead.
	t, err := NewTemplates(defaultIntentAnswers, defaultAnswer)
	if err != nil {
		panic(err)
	}
	return t
}
